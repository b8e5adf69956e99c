package wire_test

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing/iotest"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hyperfind/internal/wire"
)

var _ = Describe("Reader", func() {
	Describe("ReadRecord", func() {
		It("should read a single pair then end at EOF", func() {
			r := wire.NewReader(strings.NewReader("K 4\ntype\nV 3\nocr\n"))

			rec, err := r.ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(HaveLen(1))
			Expect(rec["type"]).To(Equal([]byte("ocr")))

			rec, err = r.ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(BeEmpty())
		})

		It("should ignore the byte after each payload", func() {
			r := wire.NewReader(strings.NewReader("K 1\naXV 2\nbbY"))

			rec, err := r.ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec["a"]).To(Equal([]byte("bb")))
		})

		It("should keep binary values intact", func() {
			value := []byte{0, '\n', 'K', ' ', 0xff}
			var buf bytes.Buffer
			buf.WriteString("K 5\nimage\nV 5\n")
			buf.Write(value)
			buf.WriteString("\n")

			rec, err := wire.NewReader(&buf).ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec["image"]).To(Equal(value))
		})

		It("should accept zero-length keys and values", func() {
			rec, err := wire.NewReader(strings.NewReader("K 0\n\nV 0\n\n")).ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(HaveKeyWithValue("", []byte{}))
		})

		It("should let a later duplicate key win", func() {
			rec, err := wire.NewReader(strings.NewReader("K 1\nk\nV 1\n1\nK 1\nk\nV 1\n2\n")).ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec["k"]).To(Equal([]byte("2")))
		})

		It("should end the record on a non-marker byte at a boundary", func() {
			r := wire.NewReader(strings.NewReader("K 1\na\nV 1\nb\nXK 1\nc\nV 1\nd\n"))

			rec, err := r.ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(HaveLen(1))

			rec, err = r.ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(HaveKeyWithValue("c", []byte("d")))
		})

		It("should end the record when only the first marker byte matches", func() {
			rec, err := wire.NewReader(strings.NewReader("K 1\na\nV 1\nb\nKZ")).ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(HaveLen(1))
		})

		It("should treat a stream error at a boundary as end of record", func() {
			src := io.MultiReader(
				strings.NewReader("K 1\na\nV 1\nb\n"),
				iotest.ErrReader(errors.New("pipe closed")),
			)

			rec, err := wire.NewReader(src).ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(HaveLen(1))
		})

		DescribeTable("should fail once a pair has started",
			func(input string, phase wire.Phase) {
				_, err := wire.NewReader(strings.NewReader(input)).ReadRecord()
				Expect(errors.Is(err, wire.ErrProtocolFormat)).To(BeTrue())

				var pfe *wire.ProtocolFormatError
				Expect(errors.As(err, &pfe)).To(BeTrue())
				Expect(pfe.Phase).To(Equal(phase))
			},
			Entry("EOF in key length", "K 4", wire.PhaseKeyLength),
			Entry("non-digit key length", "K 4x\ntype\n", wire.PhaseKeyLength),
			Entry("empty key length", "K \ntype\n", wire.PhaseKeyLength),
			Entry("short key", "K 4\nty", wire.PhaseKeyData),
			Entry("missing key terminator", "K 4\ntype", wire.PhaseKeyTerminator),
			Entry("wrong value marker", "K 4\ntype\nX 3\nocr\n", wire.PhaseValueMarker),
			Entry("EOF before value", "K 4\ntype\n", wire.PhaseValueMarker),
			Entry("negative value length", "K 4\ntype\nV -3\nocr\n", wire.PhaseValueLength),
			Entry("short value", "K 4\ntype\nV 3\noc", wire.PhaseValueData),
			Entry("missing value terminator", "K 4\ntype\nV 3\nocr", wire.PhaseValueTerminator),
		)

		It("should report where the stream broke", func() {
			r := wire.NewReader(strings.NewReader("K 1\na\nV 1\nb\nK 1\nc\nV 9\nshort"))

			_, err := r.ReadRecord()

			var pfe *wire.ProtocolFormatError
			Expect(errors.As(err, &pfe)).To(BeTrue())
			Expect(pfe.Record).To(Equal(0))
			Expect(pfe.Pair).To(Equal(1))
			Expect(pfe.Offset).To(Equal(int64(len("K 1\na\nV 1\nb\nK 1\nc\nV 9\nshort"))))
			Expect(errors.Is(err, io.ErrUnexpectedEOF)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("value-data"))
		})

		It("should reject lengths over the configured limit before allocating", func() {
			r := wire.NewReader(
				strings.NewReader("K 4\ntype\nV 99999999999\n"),
				wire.WithLimits(wire.Limits{MaxFieldLength: 1024}),
			)

			_, err := r.ReadRecord()
			Expect(errors.Is(err, wire.ErrProtocolFormat)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("exceeds limit"))
		})

		DescribeTable("should reject lengths that would overflow an int",
			func(limit int, input string) {
				r := wire.NewReader(
					strings.NewReader(input),
					wire.WithLimits(wire.Limits{MaxFieldLength: limit}),
				)

				var err error
				Expect(func() { _, err = r.ReadRecord() }).NotTo(Panic())
				Expect(errors.Is(err, wire.ErrProtocolFormat)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("exceeds limit"))
			},
			Entry("19-digit key length", math.MaxInt, "K 9999999999999999999\nx\n"),
			Entry("one past MaxInt", math.MaxInt, "K 9223372036854775808\nx\n"),
			Entry("single digit over a tiny limit", 5, "K 7\nabcdefg\n"),
		)

		It("should accept a length equal to the limit", func() {
			r := wire.NewReader(
				strings.NewReader("K 4\ntype\nV 5\ncodec\n"),
				wire.WithLimits(wire.Limits{MaxFieldLength: 5}),
			)

			rec, err := r.ReadRecord()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(rec["type"])).To(Equal("codec"))
		})
	})

	Describe("ReadRecordList", func() {
		It("should stop at the first empty record", func() {
			input := "K 1\na\nV 1\n1\n\n" +
				"K 1\nb\nV 1\n2\n\n" +
				"\n" +
				"K 1\nc\nV 1\n3\n\n"

			recs, err := wire.NewReader(strings.NewReader(input)).ReadRecordList()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0]["a"]).To(Equal([]byte("1")))
			Expect(recs[1]["b"]).To(Equal([]byte("2")))
		})

		It("should return an empty list for an empty stream", func() {
			recs, err := wire.NewReader(strings.NewReader("")).ReadRecordList()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(BeEmpty())
		})

		It("should carry the record index in format errors", func() {
			_, err := wire.NewReader(strings.NewReader("K 1\na\nV 1\n1\n\nK 1\nb\nV")).ReadRecordList()

			var pfe *wire.ProtocolFormatError
			Expect(errors.As(err, &pfe)).To(BeTrue())
			Expect(pfe.Record).To(Equal(1))
			Expect(pfe.Pair).To(Equal(0))
		})
	})
})

var _ = Describe("Writer", func() {
	It("should write keys in sorted order and terminate the list", func() {
		var buf bytes.Buffer

		err := wire.NewWriter(&buf).WriteRecordList([]wire.Record{
			{"type": []byte("codec"), "display-name": []byte("RGB")},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal("K 12\ndisplay-name\nV 3\nRGB\nK 4\ntype\nV 5\ncodec\n\n\n"))
	})

	It("should refuse empty records inside a list", func() {
		err := wire.NewWriter(io.Discard).WriteRecordList([]wire.Record{{"a": nil}, {}})
		Expect(errors.Is(err, wire.ErrEmptyRecord)).To(BeTrue())
	})
})
