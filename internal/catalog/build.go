package catalog

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/wire"
)

// Skipped records a plugin left out of the catalog because of its type.
type Skipped struct {
	Record int
	Type   string
}

// Build converts records into descriptors, preserving record order.
// Any record missing a required key fails the whole build; records with an
// unknown type are skipped.
func Build(records []wire.Record) ([]Descriptor, error) {
	descriptors, _, err := BuildWithSkipped(records)

	return descriptors, err
}

// BuildWithSkipped is Build that also reports which records were skipped.
func BuildWithSkipped(records []wire.Record) ([]Descriptor, []Skipped, error) {
	descriptors := make([]Descriptor, 0, len(records))

	var skipped []Skipped

	for i, rec := range records {
		d, err := newDescriptor(i, rec)

		switch {
		case err == nil:
			descriptors = append(descriptors, d)
		case errors.Is(err, ErrUnknownSearchType):
			skipped = append(skipped, Skipped{Record: i, Type: string(rec[KeyType])})
		default:
			return nil, nil, err
		}
	}

	return descriptors, skipped, nil
}

// Filter returns the descriptors of one type, in catalog order.
func Filter(descriptors []Descriptor, t SearchType) []Descriptor {
	var out []Descriptor

	for _, d := range descriptors {
		if d.Type == t {
			out = append(out, d)
		}
	}

	return out
}
