package wire

import (
	"bufio"
	"io"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
)

// recordTerminator ends a record on the wire; any non-marker byte would do.
const recordTerminator = '\n'

// Writer encodes records in the framed format.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter returns a Writer that buffers w. Call Flush when done, or use
// WriteRecordList which flushes on return.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteRecord writes one record with keys in sorted order, followed by the
// record terminator.
func (w *Writer) WriteRecord(rec Record) error {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		w.writeField('K', []byte(k))
		w.writeField('V', rec[k])
	}

	if err := w.bw.WriteByte(recordTerminator); err != nil {
		return errors.Wrap(err, "writing record")
	}

	return nil
}

// WriteRecordList writes every record, then the empty record that ends the list,
// and flushes.
func (w *Writer) WriteRecordList(recs []Record) error {
	for i, rec := range recs {
		if len(rec) == 0 {
			return errors.Wrapf(ErrEmptyRecord, "record %d", i)
		}

		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}

	if err := w.WriteRecord(nil); err != nil {
		return err
	}

	return w.Flush()
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return errors.Wrap(w.bw.Flush(), "flushing records")
}

// writeField errors surface on the next WriteByte or Flush; bufio.Writer keeps the first one.
func (w *Writer) writeField(marker byte, data []byte) {
	_ = w.bw.WriteByte(marker)
	_ = w.bw.WriteByte(' ')
	_, _ = w.bw.WriteString(strconv.Itoa(len(data)))
	_ = w.bw.WriteByte('\n')
	_, _ = w.bw.Write(data)
	_ = w.bw.WriteByte('\n')
}
