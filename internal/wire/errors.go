package wire

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrProtocolFormat is matched by every *ProtocolFormatError.
	ErrProtocolFormat = errors.New("malformed framed record stream")

	// ErrEmptyRecord is returned when writing a record with no pairs inside a list,
	// which would terminate the list early.
	ErrEmptyRecord = errors.New("empty record cannot be written inside a record list")
)

// Phase names the part of a pair being read when the stream broke.
type Phase string

// Phases of a key/value pair, in wire order.
const (
	PhaseKeyLength       Phase = "key-length"
	PhaseKeyData         Phase = "key-data"
	PhaseKeyTerminator   Phase = "key-terminator"
	PhaseValueMarker     Phase = "value-marker"
	PhaseValueLength     Phase = "value-length"
	PhaseValueData       Phase = "value-data"
	PhaseValueTerminator Phase = "value-terminator"
)

// ProtocolFormatError reports a stream that ended or went wrong after a pair had started.
type ProtocolFormatError struct {
	// Record is the zero-based index of the record being read.
	Record int
	// Pair is the zero-based index of the pair within the record.
	Pair int
	// Offset is the number of bytes consumed from the stream when the error occurred.
	Offset int64
	Phase  Phase
	Err    error
}

func (e *ProtocolFormatError) Error() string {
	return fmt.Sprintf(
		"malformed framed record %d, pair %d, at byte %d (%s): %v",
		e.Record, e.Pair, e.Offset, e.Phase, e.Err,
	)
}

func (e *ProtocolFormatError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProtocolFormat.
func (*ProtocolFormatError) Is(target error) bool {
	return target == ErrProtocolFormat
}
