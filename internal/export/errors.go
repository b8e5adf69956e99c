package export

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	// ErrAggregateFailed is matched by every *AggregateFailure.
	ErrAggregateFailed = errors.New("aggregate export failed")

	// ErrGroupFailed is matched by every *GroupedDownloadFailure.
	ErrGroupFailed = errors.New("grouped download failed")

	// ErrUnsupportedFlavor is returned for a transfer flavor a batch cannot produce.
	ErrUnsupportedFlavor = errors.New("unsupported transfer flavor")

	// ErrEmptyBatch is returned when a batch has no items.
	ErrEmptyBatch = errors.New("batch has no items")

	// ErrInvalidLabel is returned for a group label that cannot name a directory.
	ErrInvalidLabel = errors.New("invalid group label")

	// ErrInvalidURI is returned when a URI list line cannot be used.
	ErrInvalidURI = errors.New("invalid URI")
)

// AggregateFailure reports the first item that failed an all-or-nothing export.
type AggregateFailure struct {
	Batch uuid.UUID
	Index int
	Err   error
}

func (e *AggregateFailure) Error() string {
	return fmt.Sprintf("aggregate %s: item %d: %v", e.Batch, e.Index, e.Err)
}

func (e *AggregateFailure) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAggregateFailed.
func (*AggregateFailure) Is(target error) bool {
	return target == ErrAggregateFailed
}

// GroupedDownloadFailure reports why one labeled group stopped.
type GroupedDownloadFailure struct {
	Label string
	Err   error
}

func (e *GroupedDownloadFailure) Error() string {
	return fmt.Sprintf("group %q: %v", e.Label, e.Err)
}

func (e *GroupedDownloadFailure) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrGroupFailed.
func (*GroupedDownloadFailure) Is(target error) bool {
	return target == ErrGroupFailed
}
