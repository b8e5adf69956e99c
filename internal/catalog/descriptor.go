// Package catalog turns plugin-runner records into plugin descriptors.
package catalog

import (
	"github.com/smykla-skalski/hyperfind/internal/wire"
)

// Record keys every plugin must carry.
const (
	KeyDisplayName  = "display-name"
	KeyInternalName = "internal-name"
	KeyNeedsPatches = "needs-patches"
	KeyType         = "type"
)

// requiredKeys is checked in order; the first missing key is reported.
var requiredKeys = []string{KeyDisplayName, KeyInternalName, KeyNeedsPatches, KeyType}

// Descriptor describes one search plugin. It is an immutable value.
type Descriptor struct {
	DisplayName  string     `cbor:"display_name"  json:"display_name"  toml:"display_name"  yaml:"display_name"`
	InternalName string     `cbor:"internal_name" json:"internal_name" toml:"internal_name" yaml:"internal_name"`
	Type         SearchType `cbor:"type"          json:"type"          toml:"type"          yaml:"type"`
	NeedsPatches bool       `cbor:"needs_patches" json:"needs_patches" toml:"needs_patches" yaml:"needs_patches"`
}

// String returns the display name.
func (d Descriptor) String() string {
	return d.DisplayName
}

// NewDescriptor builds a descriptor from one record. A missing key yields a
// *ValidationError with Record set to -1; an unrecognized type yields ErrUnknownSearchType.
func NewDescriptor(rec wire.Record) (Descriptor, error) {
	return newDescriptor(-1, rec)
}

func newDescriptor(index int, rec wire.Record) (Descriptor, error) {
	for _, key := range requiredKeys {
		if _, ok := rec[key]; !ok {
			return Descriptor{}, &ValidationError{Record: index, Key: key}
		}
	}

	searchType, err := ParseSearchType(string(rec[KeyType]))
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		DisplayName:  string(rec[KeyDisplayName]),
		InternalName: string(rec[KeyInternalName]),
		Type:         searchType,
		NeedsPatches: string(rec[KeyNeedsPatches]) == "true",
	}, nil
}
