// Package wire reads and writes the plugin-runner's framed key/value record protocol.
//
// A pair is
//
//	K <keylen>\n<key bytes><1 byte>V <vallen>\n<value bytes><1 byte>
//
// and a record is a run of pairs that ends when the "K " marker cannot be read.
// A record list ends at the first record with no pairs.
package wire

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
)

// DefaultMaxFieldLength caps keys and values when Limits leaves it unset.
const DefaultMaxFieldLength = 64 << 20

// maxLengthDigits bounds the decimal length prefix before it is parsed.
const maxLengthDigits = 19

var (
	errBadLengthDigit = errors.New("non-digit in length")
	errEmptyLength    = errors.New("empty length")
	errLengthTooLarge = errors.New("length exceeds limit")
	errBadMarker      = errors.New("unexpected marker byte")
)

// Record is one set of key/value pairs. Keys are unique; order is not preserved.
type Record map[string][]byte

// Limits bounds allocations made while decoding.
type Limits struct {
	// MaxFieldLength is the largest key or value accepted, in bytes.
	MaxFieldLength int
}

func (l Limits) maxField() int {
	if l.MaxFieldLength <= 0 {
		return DefaultMaxFieldLength
	}

	return l.MaxFieldLength
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLimits sets decoding limits.
func WithLimits(limits Limits) ReaderOption {
	return func(r *Reader) {
		r.limits = limits
	}
}

// Reader decodes framed records from a byte stream.
type Reader struct {
	br     *bufio.Reader
	limits Limits
	offset int64
	record int

	// pair is the index of the pair being read in the current record.
	pair int
	// atPairBoundary is true until the "K " marker of a pair has been read.
	atPairBoundary bool
}

// NewReader returns a Reader that buffers r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{br: bufio.NewReader(r)}

	for _, opt := range opts {
		opt(reader)
	}

	return reader
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadRecord reads one record. A stream that fails exactly at a pair boundary,
// including clean EOF, ends the record and is not an error; the result may be empty.
// A failure after a pair has started returns a *ProtocolFormatError.
func (r *Reader) ReadRecord() (Record, error) {
	rec := Record{}
	r.pair = 0

	defer func() { r.record++ }()

	for {
		r.atPairBoundary = true

		if err := r.expect('K', ' '); err != nil {
			return rec, nil //nolint:nilerr // a broken marker at a boundary ends the record
		}

		r.atPairBoundary = false

		key, err := r.readField(PhaseKeyLength, PhaseKeyData, PhaseKeyTerminator)
		if err != nil {
			return nil, err
		}

		if err := r.expect('V', ' '); err != nil {
			return nil, r.formatError(PhaseValueMarker, noEOF(err))
		}

		value, err := r.readField(PhaseValueLength, PhaseValueData, PhaseValueTerminator)
		if err != nil {
			return nil, err
		}

		rec[string(key)] = value
		r.pair++
	}
}

// ReadRecordList reads records until the first empty one.
func (r *Reader) ReadRecordList() ([]Record, error) {
	var records []Record

	for {
		rec, err := r.ReadRecord()
		if err != nil {
			return nil, err
		}

		if len(rec) == 0 {
			return records, nil
		}

		records = append(records, rec)
	}
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		return 0, err
	}

	r.offset++

	return b, nil
}

func (r *Reader) expect(marker ...byte) error {
	for _, want := range marker {
		got, err := r.readByte()
		if err != nil {
			return err
		}

		if got != want {
			return errors.Wrapf(errBadMarker, "want %q, got %q", want, got)
		}
	}

	return nil
}

func (r *Reader) readField(lengthPhase, dataPhase, termPhase Phase) ([]byte, error) {
	n, err := r.readLength()
	if err != nil {
		return nil, r.formatError(lengthPhase, err)
	}

	buf := make([]byte, n)

	read, err := io.ReadFull(r.br, buf)
	r.offset += int64(read)

	if err != nil {
		return nil, r.formatError(dataPhase, noEOF(err))
	}

	// The terminator is consumed but never checked.
	if _, err := r.readByte(); err != nil {
		return nil, r.formatError(termPhase, noEOF(err))
	}

	return buf, nil
}

func (r *Reader) readLength() (int, error) {
	limit := r.limits.maxField()
	n := 0
	digits := 0

	for {
		c, err := r.readByte()
		if err != nil {
			return 0, noEOF(err)
		}

		if c == '\n' {
			break
		}

		if c < '0' || c > '9' {
			return 0, errors.Wrapf(errBadLengthDigit, "%q", c)
		}

		digits++
		if digits > maxLengthDigits {
			return 0, errors.Wrapf(errLengthTooLarge, "more than %d digits", maxLengthDigits)
		}

		d := int(c - '0')
		if d > limit || n > (limit-d)/10 {
			return 0, errors.Wrapf(errLengthTooLarge, "limit is %d bytes", limit)
		}

		n = n*10 + d
	}

	if digits == 0 {
		return 0, errEmptyLength
	}

	return n, nil
}

func (r *Reader) formatError(phase Phase, err error) error {
	return &ProtocolFormatError{
		Record: r.record,
		Pair:   r.pair,
		Offset: r.offset,
		Phase:  phase,
		Err:    err,
	}
}

// noEOF turns a bare io.EOF inside a pair into io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}
