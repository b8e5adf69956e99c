package crashdump_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hyperfind/internal/crashdump"
)

var _ = Describe("Store", func() {
	var (
		dir   string
		store *crashdump.Store
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "crashes")

		var err error
		store, err = crashdump.NewStore(dir)
		Expect(err).NotTo(HaveOccurred())
	})

	dump := func(id string, age time.Duration) *crashdump.CrashInfo {
		info := &crashdump.CrashInfo{
			ID:         id,
			Timestamp:  time.Now().Add(-age),
			PanicValue: "boom " + id,
		}

		_, err := store.Write(info)
		Expect(err).NotTo(HaveOccurred())

		return info
	}

	It("rejects an empty directory", func() {
		_, err := crashdump.NewStore("")
		Expect(err).To(MatchError(crashdump.ErrInvalidDumpDir))
	})

	It("writes private files and reads them back", func() {
		info := dump("crash-a", 0)

		path := filepath.Join(dir, "crash-a.json")
		fi, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(fi.Mode().Perm()).To(Equal(crashdump.FilePerm))
		Expect(path + ".tmp").NotTo(BeAnExistingFile())

		got, err := store.Get("crash-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.PanicValue).To(Equal(info.PanicValue))
	})

	It("lists newest first and skips corrupt files", func() {
		dump("crash-old", time.Hour)
		dump("crash-new", 0)
		Expect(os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o600)).To(Succeed())

		summaries, err := store.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(summaries).To(HaveLen(2))
		Expect(summaries[0].ID).To(Equal("crash-new"))
		Expect(summaries[1].ID).To(Equal("crash-old"))
	})

	It("lists nothing before the first dump", func() {
		summaries, err := store.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(summaries).To(BeEmpty())
	})

	It("reports unknown and path-like IDs as not found", func() {
		_, err := store.Get("crash-missing")
		Expect(err).To(MatchError(crashdump.ErrDumpNotFound))

		_, err = store.Get("../etc/passwd")
		Expect(err).To(MatchError(crashdump.ErrDumpNotFound))

		Expect(store.Delete("crash-missing")).To(MatchError(crashdump.ErrDumpNotFound))
	})

	It("prunes by age, then by count", func() {
		dump("crash-1", 0)
		dump("crash-2", time.Minute)
		dump("crash-3", 2*time.Minute)
		dump("crash-4", 48*time.Hour)

		removed, err := store.Prune(2, 24*time.Hour, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(HaveLen(2))

		summaries, _ := store.List()
		Expect(summaries).To(HaveLen(4))

		removed, err = store.Prune(2, 24*time.Hour, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(HaveLen(2))

		summaries, _ = store.List()
		Expect(summaries).To(HaveLen(2))
		Expect(summaries[0].ID).To(Equal("crash-1"))
		Expect(summaries[1].ID).To(Equal("crash-2"))
	})
})
