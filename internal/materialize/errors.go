package materialize

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMaterialization is matched by every *Error.
	ErrMaterialization = errors.New("materialization failed")

	errEmptyData = errors.New("backend returned no image data")
	errNoResult  = errors.New("backend returned no result")
)

// Error reports a failed materialization. It belongs to one handle only.
type Error struct {
	Input Input
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("materializing %s: %v", e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMaterialization.
func (*Error) Is(target error) bool {
	return target == ErrMaterialization
}
