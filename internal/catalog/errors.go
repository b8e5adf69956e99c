package catalog

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMissingKey is matched by every *ValidationError.
	ErrMissingKey = errors.New("plugin record is missing a required key")

	// ErrUnknownSearchType is returned for a record whose type is neither codec nor filter.
	ErrUnknownSearchType = errors.New("unknown search type")
)

// ValidationError reports a record that lacks a required key.
type ValidationError struct {
	// Record is the zero-based index of the record in the runner's output.
	Record int
	Key    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("plugin record %d: missing key %q", e.Record, e.Key)
}

// Is reports whether target is ErrMissingKey.
func (*ValidationError) Is(target error) bool {
	return target == ErrMissingKey
}
