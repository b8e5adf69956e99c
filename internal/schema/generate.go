// Package schema generates the JSON Schema of hyperfind's config file.
//
//go:generate go run ../../cmd/schema-gen ../../schema
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	internalconfig "github.com/smykla-skalski/hyperfind/internal/config"
	"github.com/smykla-skalski/hyperfind/pkg/config"
)

const (
	schemaURI = "https://json-schema.org/draft/2020-12/schema"
	baseID    = "https://raw.githubusercontent.com/smykla-skalski/hyperfind/main/schema/"
	title     = "hyperfind configuration"
	defsRef   = "#/$defs/"
)

// Filename returns the versioned schema file name.
func Filename() string {
	return fmt.Sprintf("config.v%d.schema.json", config.CurrentConfigVersion)
}

// Generate reflects config.Config and annotates every property with
// the value hyperfind uses when the key is absent.
func Generate() (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(&config.Config{})
	s.Version = schemaURI
	s.ID = jsonschema.ID(baseID + Filename())
	s.Title = title

	if err := applyDefaults(s); err != nil {
		return nil, err
	}

	return s, nil
}

// applyDefaults copies DefaultConfig values into "default" keywords,
// following top-level $refs into $defs.
func applyDefaults(s *jsonschema.Schema) error {
	data, err := json.Marshal(internalconfig.DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling defaults")
	}

	var defaults map[string]any
	if err := json.Unmarshal(data, &defaults); err != nil {
		return errors.Wrap(err, "decoding defaults")
	}

	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		value, ok := defaults[pair.Key]
		if !ok {
			continue
		}

		section, isSection := value.(map[string]any)
		if !isSection || !strings.HasPrefix(pair.Value.Ref, defsRef) {
			pair.Value.Default = value

			continue
		}

		def, ok := s.Definitions[strings.TrimPrefix(pair.Value.Ref, defsRef)]
		if !ok || def.Properties == nil {
			continue
		}

		for key, v := range section {
			if prop, ok := def.Properties.Get(key); ok {
				prop.Default = v
			}
		}
	}

	return nil
}

// GenerateJSON renders the schema, pretty-printed when indent is true.
func GenerateJSON(indent bool) ([]byte, error) {
	s, err := Generate()
	if err != nil {
		return nil, err
	}

	var data []byte

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	return append(data, '\n'), nil
}
