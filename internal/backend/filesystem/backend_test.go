package filesystem_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hyperfind/internal/backend/filesystem"
	"github.com/smykla-skalski/hyperfind/internal/materialize"
)

func writePNG(path string, w, h int) []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)))).To(Succeed())
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, buf.Bytes(), 0o600)).To(Succeed())

	return buf.Bytes()
}

var _ = Describe("Backend", func() {
	var (
		root string
		b    *filesystem.Backend
		ctx  context.Context
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		writePNG(filepath.Join(root, "scope", "a.png"), 4, 3)
		writePNG(filepath.Join(root, "scope", "nested", "b.png"), 1, 1)
		Expect(os.WriteFile(filepath.Join(root, "notes.txt"), []byte("text"), 0o600)).To(Succeed())

		var err error
		b, err = filesystem.New(root)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("rejects a missing root", func() {
		_, err := filesystem.New(filepath.Join(root, "missing"))
		Expect(err).To(MatchError(filesystem.ErrInvalidRoot))
	})

	It("reads objects with dimension attributes", func() {
		res, err := b.GenerateResult(ctx, "scope/a.png", materialize.DefaultImageAttributes)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Data).NotTo(BeEmpty())
		Expect(res.Attributes).To(HaveKeyWithValue("_rows.int", []byte("3")))
		Expect(res.Attributes).To(HaveKeyWithValue("_cols.int", []byte("4")))
	})

	It("omits data that was not requested", func() {
		res, err := b.GenerateResult(ctx, "scope/a.png", []string{"_rows.int"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Data).To(BeNil())
		Expect(res.Attributes).To(HaveKey("_rows.int"))
		Expect(res.Attributes).NotTo(HaveKey("_cols.int"))
	})

	It("skips dimensions for non-images", func() {
		res, err := b.GenerateResult(ctx, "notes.txt", materialize.DefaultImageAttributes)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Data).To(Equal([]byte("text")))
		Expect(res.Attributes).To(BeEmpty())
	})

	DescribeTable("rejects identifiers outside the root",
		func(id string) {
			_, err := b.GenerateResult(ctx, materialize.ObjectID(id), nil)
			Expect(err).To(MatchError(filesystem.ErrInvalidID))
		},
		Entry("parent", "../etc/passwd"),
		Entry("absolute", "/etc/passwd"),
		Entry("inner parent", "scope/../../x"),
		Entry("root itself", "."),
	)

	It("reports missing objects", func() {
		_, err := b.GenerateResult(ctx, "scope/none.png", nil)
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("passes bytes through", func() {
		data := []byte("raw")
		res, err := b.GenerateResultFromBytes(ctx, data, []string{""})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Data).To(Equal(data))
	})

	It("honors a cancelled context", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := b.GenerateResult(cancelled, "scope/a.png", nil)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("globs identifiers with doublestar patterns", func() {
		ids, err := b.Glob("scope/**/*.png")
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(ConsistOf(
			materialize.ObjectID("scope/a.png"),
			materialize.ObjectID("scope/nested/b.png"),
		))

		_, err = b.Glob("**/*.jpg")
		Expect(err).To(MatchError(filesystem.ErrNoMatch))
	})

	It("reads matching files as by-bytes inputs", func() {
		inputs, err := filesystem.ReadInputs(filepath.Join(root, "scope", "*.png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(inputs).To(HaveLen(1))
		Expect(inputs[0].IsBytes()).To(BeTrue())
		Expect(inputs[0].Name).To(Equal(filepath.Join(root, "scope", "a.png")))
	})
})
