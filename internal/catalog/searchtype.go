package catalog

import "github.com/cockroachdb/errors"

// SearchType is the kind of search a plugin provides.
type SearchType string

const (
	// SearchTypeCodec plugins decode objects into something a filter can inspect.
	SearchTypeCodec SearchType = "codec"

	// SearchTypeFilter plugins evaluate a predicate over decoded objects.
	SearchTypeFilter SearchType = "filter"
)

// SearchTypes lists every known search type in display order.
func SearchTypes() []SearchType {
	return []SearchType{SearchTypeCodec, SearchTypeFilter}
}

// ParseSearchType matches s exactly against the known search types.
func ParseSearchType(s string) (SearchType, error) {
	for _, t := range SearchTypes() {
		if string(t) == s {
			return t, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownSearchType, "%q", s)
}

// String returns the wire spelling of the type.
func (t SearchType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known search types.
func (t SearchType) IsValid() bool {
	_, err := ParseSearchType(string(t))

	return err == nil
}
