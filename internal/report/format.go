// Package report renders plugin catalogs and download summaries.
package report

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/hyperfind/internal/catalog"
	"github.com/smykla-skalski/hyperfind/pkg/mdtable"
)

// Format is a catalog output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatCBOR  Format = "cbor"

	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatTOML, FormatCBOR, FormatMarkdown}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats(), f) {
		return f, nil
	}

	return "", errors.Wrapf(ErrUnknownFormat, "%q (want one of %v)", s, Formats())
}

// catalogDocument wraps the list for formats that need a top-level table.
type catalogDocument struct {
	Plugins []catalog.Descriptor `cbor:"plugins" json:"plugins" toml:"plugins" yaml:"plugins"`
}

// EncodeCatalog writes descriptors to w in a machine-readable format.
// FormatTable is handled by RenderCatalog.
func EncodeCatalog(w io.Writer, f Format, descriptors []catalog.Descriptor) error {
	if descriptors == nil {
		descriptors = []catalog.Descriptor{}
	}

	doc := catalogDocument{Plugins: descriptors}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(doc), "encoding json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}

		return errors.Wrap(enc.Close(), "encoding yaml")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(doc), "encoding toml")
	case FormatCBOR:
		data, err := cbor.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "encoding cbor")
		}

		_, err = w.Write(data)

		return errors.Wrap(err, "writing cbor")
	case FormatMarkdown:
		_, err := io.WriteString(w, markdownCatalog(descriptors))

		return errors.Wrap(err, "writing markdown")
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q cannot be encoded", f)
	}
}

func markdownCatalog(descriptors []catalog.Descriptor) string {
	t := mdtable.New("Name", "Internal name", "Type", "Patches").
		SetAlignment(3, mdtable.AlignCenter)

	for _, d := range descriptors {
		patches := ""
		if d.NeedsPatches {
			patches = "yes"
		}

		t.AddRow(d.DisplayName, d.InternalName, d.Type.String(), patches)
	}

	return t.String()
}

// DecodeCatalog reads descriptors written by EncodeCatalog. Markdown is
// write-only.
func DecodeCatalog(data []byte, f Format) ([]catalog.Descriptor, error) {
	var (
		doc catalogDocument
		err error
	)

	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &doc)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q cannot be decoded", f)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", f)
	}

	return doc.Plugins, nil
}
