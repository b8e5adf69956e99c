package crashdump_test

import (
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/hyperfind/internal/config"
	"github.com/smykla-skalski/hyperfind/internal/crashdump"
	"github.com/smykla-skalski/hyperfind/internal/workpool"
)

var _ = Describe("Collector", func() {
	var collector *crashdump.Collector

	BeforeEach(func() {
		collector = crashdump.NewCollector("1.2.3")
	})

	DescribeTable("panic value formatting",
		func(recovered any, want string) {
			Expect(collector.Collect(recovered, nil, nil).PanicValue).To(Equal(want))
		},
		Entry("string", "boom", "boom"),
		Entry("error", errors.New("bad state"), "bad state"),
		Entry("nil", nil, "panic(nil)"),
		Entry("runtime nil panic", new(runtime.PanicNilError), "panic(nil)"),
		Entry("number", 42, "42"),
	)

	It("captures stack, runtime, metadata and command", func() {
		cmd := &crashdump.CommandInfo{Path: "hyperfind export", Args: []string{"--files", "a.png"}}

		info := collector.Collect("boom", cmd, nil)
		Expect(info.ID).To(MatchRegexp(`^crash-\d{8}T\d{6}-[0-9a-f]{8}$`))
		Expect(info.StackTrace).To(ContainSubstring("goroutine"))
		Expect(info.Runtime.GoVersion).NotTo(BeEmpty())
		Expect(info.Metadata.Version).To(Equal("1.2.3"))
		Expect(info.Command).To(Equal(cmd))
		Expect(info.Config).To(BeNil())
		Expect(info.Pools).To(BeEmpty())
	})

	It("rewrites home paths in command arguments", func() {
		GinkgoT().Setenv("HOME", "/home/someone")

		cmd := &crashdump.CommandInfo{Path: "hyperfind download", Args: []string{"--dest", "/home/someone/out"}}
		info := crashdump.NewCollector("dev").Collect("boom", cmd, nil)

		Expect(info.Command.Args).To(Equal([]string{"--dest", "~/out"}))
		Expect(cmd.Args[1]).To(Equal("/home/someone/out"))
	})

	It("records pool state when a provider is set", func() {
		stats := func() []workpool.Stats {
			return []workpool.Stats{{Workers: 16, Running: 3, Queued: 5, PeakRunning: 16, Completed: 40}}
		}

		info := crashdump.NewCollector("dev", crashdump.WithPoolStats(stats)).Collect("boom", nil, nil)
		Expect(info.Pools).To(Equal([]crashdump.PoolState{
			{Workers: 16, Running: 3, Queued: 5, PeakRunning: 16, Completed: 40},
		}))
	})

	It("snapshots a sanitized config", func() {
		home := GinkgoT().TempDir()
		GinkgoT().Setenv("HOME", home)

		cfg := internalconfig.DefaultConfig()
		cfg.GetBackend().Root = filepath.Join(home, "results")

		info := crashdump.NewCollector("dev").Collect("boom", nil, cfg)
		Expect(info.Config).To(HaveKey("runner"))
		Expect(info.Config["backend"]).To(HaveKeyWithValue("root", "~/results"))
	})

	It("generates distinct IDs", func() {
		a := collector.Collect("x", nil, nil)
		b := collector.Collect("x", nil, nil)
		Expect(a.ID).NotTo(Equal(b.ID))
	})
})

var _ = Describe("Sanitizer", func() {
	It("converts the config to a generic map", func() {
		s := crashdump.NewSanitizer()

		cfg := internalconfig.DefaultConfig()
		out := s.SanitizeConfig(cfg)
		Expect(out).To(HaveKey("export"))
		Expect(s.SanitizeConfig(nil)).To(BeNil())
	})

	It("leaves paths outside home alone", func() {
		GinkgoT().Setenv("HOME", "/home/someone")

		s := crashdump.NewSanitizer()
		Expect(s.SanitizePath("/srv/data")).To(Equal("/srv/data"))
		Expect(s.SanitizePath("/home/someone")).To(Equal("~"))
		Expect(s.SanitizePath("/home/someone/x")).To(Equal("~/x"))
		Expect(s.SanitizePath("/home/someoneelse")).To(Equal("/home/someoneelse"))
	})

	It("rewrites home paths inside free text", func() {
		GinkgoT().Setenv("HOME", "/home/someone")

		s := crashdump.NewSanitizer()
		stack := "main.main()\n\t/home/someone/src/hyperfind/main.go:42 +0x1d"
		Expect(s.SanitizeText(stack)).To(Equal("main.main()\n\t~/src/hyperfind/main.go:42 +0x1d"))
	})
})
