package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/hyperfind/internal/config"
)

var _ = Describe("KoanfLoader", func() {
	var (
		homeDir string
		workDir string
		loader  *internalconfig.KoanfLoader
	)

	writeFile := func(path, content string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		loader = internalconfig.NewKoanfLoaderWithDirs(homeDir, workDir)

		for _, key := range []string{
			"HYPERFIND_RUNNER_PATH",
			"HYPERFIND_MATERIALIZER_WORKERS",
			"HYPERFIND_MATERIALIZER_IDLE_TIMEOUT",
			"HYPERFIND_MATERIALIZER_ATTRIBUTES",
			"HYPERFIND_CRASH_DUMP_ENABLED",
			"HYPERFIND_CRASH_DUMP_MAX_AGE",
		} {
			os.Unsetenv(key)
		}
	})

	It("should return defaults when no files exist", func() {
		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.GetRunner().GetPath()).To(Equal("snapfind-plugin-runner"))
		Expect(cfg.GetMaterializer().Workers).To(Equal(16))
		Expect(cfg.GetMaterializer().GetIdleTimeout()).To(Equal(500 * time.Millisecond))
		Expect(cfg.GetMaterializer().Attributes).To(Equal([]string{"", "_rows.int", "_cols.int"}))
		Expect(cfg.GetExport().TempPrefix).To(Equal("hyperfind-export-"))
		Expect(cfg.GetExport().IsCleanupOnExit()).To(BeTrue())
		Expect(cfg.GetBackend().Root).To(Equal("."))
		Expect(cfg.GetCrashDump().IsEnabled()).To(BeTrue())
		Expect(cfg.GetCrashDump().GetMaxDumps()).To(Equal(10))
	})

	It("should map crash dump env vars onto the two-word section", func() {
		GinkgoT().Setenv("HYPERFIND_CRASH_DUMP_ENABLED", "false")
		GinkgoT().Setenv("HYPERFIND_CRASH_DUMP_MAX_AGE", "1h")

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetCrashDump().IsEnabled()).To(BeFalse())
		Expect(cfg.GetCrashDump().GetMaxAge()).To(Equal(time.Hour))
	})

	It("should layer project config over global config", func() {
		writeFile(filepath.Join(homeDir, ".config", "hyperfind", "config.toml"), `
[runner]
path = "/opt/global-runner"

[materializer]
workers = 8
idle_timeout = "2s"
`)
		writeFile(filepath.Join(workDir, ".hyperfind", "config.toml"), `
[materializer]
workers = 4
`)

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetRunner().GetPath()).To(Equal("/opt/global-runner"))
		Expect(cfg.GetMaterializer().Workers).To(Equal(4))
		Expect(cfg.GetMaterializer().GetIdleTimeout()).To(Equal(2 * time.Second))
	})

	It("should accept hyperfind.toml as project config", func() {
		writeFile(filepath.Join(workDir, "hyperfind.toml"), "[backend]\nroot = \"/data/objects\"\n")

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetBackend().Root).To(Equal("/data/objects"))
		Expect(loader.FindProjectConfigPath()).To(Equal(filepath.Join(workDir, "hyperfind.toml")))
	})

	It("should let env vars override files and flags override env", func() {
		writeFile(filepath.Join(workDir, "hyperfind.toml"), "[runner]\npath = \"/from/file\"\n")
		GinkgoT().Setenv("HYPERFIND_RUNNER_PATH", "/from/env")
		GinkgoT().Setenv("HYPERFIND_MATERIALIZER_IDLE_TIMEOUT", "1s")
		GinkgoT().Setenv("HYPERFIND_MATERIALIZER_ATTRIBUTES", ",_rows.int")

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetRunner().GetPath()).To(Equal("/from/env"))
		Expect(cfg.GetMaterializer().GetIdleTimeout()).To(Equal(time.Second))
		Expect(cfg.GetMaterializer().Attributes).To(Equal([]string{"", "_rows.int"}))

		cfg, err = loader.Load(map[string]any{"runner": "/from/flag", "workers": 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetRunner().GetPath()).To(Equal("/from/flag"))
		Expect(cfg.GetMaterializer().Workers).To(Equal(2))
	})

	It("should reject world-writable config files", func() {
		path := filepath.Join(workDir, "hyperfind.toml")
		writeFile(path, "[runner]\npath = \"x\"\n")
		Expect(os.Chmod(path, 0o666)).To(Succeed())

		_, err := loader.Load(nil)
		Expect(errors.Is(err, internalconfig.ErrInvalidPermissions)).To(BeTrue())
	})

	It("should fail for a missing explicit config file", func() {
		loader.SetProjectConfigPath(filepath.Join(workDir, "nope.toml"))

		_, err := loader.Load(nil)
		Expect(errors.Is(err, internalconfig.ErrConfigNotFound)).To(BeTrue())
	})

	It("should decode numeric durations as nanoseconds and attribute strings as lists", func() {
		writeFile(filepath.Join(workDir, "hyperfind.toml"),
			"[materializer]\nidle_timeout = 2000000000\nattributes = \"_rows.int,_cols.int\"\n")

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetMaterializer().GetIdleTimeout()).To(Equal(2 * time.Second))
		Expect(cfg.GetMaterializer().GetAttributes()).To(Equal([]string{"_rows.int", "_cols.int"}))
	})

	It("should report invalid durations", func() {
		writeFile(filepath.Join(workDir, "hyperfind.toml"), "[materializer]\nidle_timeout = \"soon\"\n")

		_, err := loader.Load(nil)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unmarshal"))
	})

	It("should collect every validation failure", func() {
		writeFile(filepath.Join(workDir, "hyperfind.toml"), `
version = 9

[materializer]
workers = 2
min_workers = 5

[export]
download_subpath = "../escape"
`)

		_, err := loader.Load(nil)
		Expect(errors.Is(err, internalconfig.ErrInvalidConfig)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("validation failed with 3 error(s)"))
	})
})

var _ = Describe("Writer", func() {
	It("should write defaults that load back identically", func() {
		workDir := GinkgoT().TempDir()
		writer := internalconfig.NewWriter(workDir)
		path := writer.ProjectConfigPath()

		Expect(writer.WriteFile(path, internalconfig.DefaultConfig(), false)).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(internalconfig.ConfigFileMode)))

		cfg, err := internalconfig.NewKoanfLoaderWithDirs(GinkgoT().TempDir(), workDir).Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetMaterializer().GetIdleTimeout()).To(Equal(500 * time.Millisecond))
		Expect(cfg.GetExport().GetDownloadSubpath()).To(Equal("hyperfind-download"))
	})

	It("should refuse to overwrite without force", func() {
		workDir := GinkgoT().TempDir()
		writer := internalconfig.NewWriter(workDir)
		path := writer.ProjectConfigPath()

		Expect(writer.WriteFile(path, internalconfig.DefaultConfig(), false)).To(Succeed())
		err := writer.WriteFile(path, internalconfig.DefaultConfig(), false)
		Expect(errors.Is(err, internalconfig.ErrConfigExists)).To(BeTrue())
		Expect(writer.WriteFile(path, internalconfig.DefaultConfig(), true)).To(Succeed())
	})

	It("should diff an existing file against the defaults", func() {
		workDir := GinkgoT().TempDir()
		writer := internalconfig.NewWriter(workDir)
		path := writer.ProjectConfigPath()

		diff, err := internalconfig.Diff(path, internalconfig.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(diff).To(ContainSubstring("+version = 1"))

		Expect(writer.WriteFile(path, internalconfig.DefaultConfig(), false)).To(Succeed())

		diff, err = internalconfig.Diff(path, internalconfig.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(diff).To(BeEmpty())

		cfg := internalconfig.DefaultConfig()
		cfg.GetMaterializer().Workers = 4

		diff, err = internalconfig.Diff(path, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(diff).To(ContainSubstring("-  workers = 16"))
		Expect(diff).To(ContainSubstring("+  workers = 4"))
	})
})
