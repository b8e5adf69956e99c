package runner_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/hyperfind/internal/catalog"
	"github.com/smykla-skalski/hyperfind/internal/exec"
	"github.com/smykla-skalski/hyperfind/internal/runner"
	"github.com/smykla-skalski/hyperfind/internal/wire"
	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

const runnerPath = "/opt/diamond/snapfind-plugin-runner"

func plugin(display, internal, kind string) wire.Record {
	return wire.Record{
		"display-name":  []byte(display),
		"internal-name": []byte(internal),
		"needs-patches": []byte("false"),
		"type":          []byte(kind),
	}
}

func encode(records ...wire.Record) []byte {
	var buf bytes.Buffer
	Expect(wire.NewWriter(&buf).WriteRecordList(records)).To(Succeed())

	return buf.Bytes()
}

var _ = Describe("Launcher", func() {
	var (
		ctrl    *gomock.Controller
		starter *exec.MockProcessStarter
		proc    *exec.MockProcess
		logBuf  *bytes.Buffer
		l       *runner.Launcher
	)

	expectRun := func(stdout *bytes.Reader, result *exec.CommandResult) {
		starter.EXPECT().Start(gomock.Any(), runnerPath, "list-plugins").Return(proc, nil)
		proc.EXPECT().Stdout().Return(stdout)
		proc.EXPECT().Wait().Return(result, nil)
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		starter = exec.NewMockProcessStarter(ctrl)
		proc = exec.NewMockProcess(ctrl)
		logBuf = &bytes.Buffer{}
		l = runner.NewLauncher(starter, runner.WithLogger(logger.NewFileLoggerWithWriter(logBuf, true, true)))
	})

	It("should return the catalog in runner order", func() {
		expectRun(bytes.NewReader(encode(
			plugin("RGB Histogram", "rgb_histogram", "filter"),
			plugin("RGB Image", "rgbimg", "codec"),
		)), &exec.CommandResult{})

		descriptors, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(descriptors).To(HaveLen(2))
		Expect(descriptors[0].InternalName).To(Equal("rgb_histogram"))
		Expect(descriptors[1].Type).To(Equal(catalog.SearchTypeCodec))
		Expect(logBuf.String()).To(ContainSubstring("plugin catalog loaded"))
	})

	It("should skip unknown types and log them", func() {
		expectRun(bytes.NewReader(encode(
			plugin("A", "a", "codec"),
			plugin("B", "b", "frobnicator"),
			plugin("C", "c", "filter"),
		)), &exec.CommandResult{})

		descriptors, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(descriptors).To(HaveLen(2))
		Expect(logBuf.String()).To(ContainSubstring("type=frobnicator"))
	})

	It("should discard well-formed output when the runner exits non-zero", func() {
		expectRun(bytes.NewReader(encode(
			plugin("A", "a", "codec"),
			plugin("B", "b", "filter"),
		)), &exec.CommandResult{ExitCode: 1, Stderr: "segfault in plugin b\n"})

		descriptors, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(descriptors).To(BeEmpty())
		Expect(errors.Is(err, runner.ErrSubprocessExit)).To(BeTrue())

		var exitErr *runner.SubprocessExitError
		Expect(errors.As(err, &exitErr)).To(BeTrue())
		Expect(exitErr.ExitCode).To(Equal(1))
		Expect(exitErr.Path).To(Equal(runnerPath))
		Expect(errors.FlattenDetails(err)).To(ContainSubstring("segfault in plugin b"))
	})

	It("should prefer the exit error over a protocol error", func() {
		expectRun(bytes.NewReader([]byte("K 4\ntype\nV 99\nshort")), &exec.CommandResult{ExitCode: 2})

		_, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(errors.Is(err, runner.ErrSubprocessExit)).To(BeTrue())
		Expect(errors.Is(err, wire.ErrProtocolFormat)).To(BeFalse())
	})

	It("should report malformed output from a successful runner", func() {
		expectRun(bytes.NewReader([]byte("K 4\ntype\nV 99\nshort")), &exec.CommandResult{})

		_, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(errors.Is(err, wire.ErrProtocolFormat)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(runnerPath))
	})

	It("should fail the whole catalog on a missing key", func() {
		bad := plugin("B", "b", "codec")
		delete(bad, "needs-patches")

		expectRun(bytes.NewReader(encode(plugin("A", "a", "codec"), bad)), &exec.CommandResult{})

		descriptors, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(descriptors).To(BeNil())
		Expect(errors.Is(err, catalog.ErrMissingKey)).To(BeTrue())
	})

	It("should drain trailing output before waiting", func() {
		stream := append(encode(plugin("A", "a", "codec")), bytes.Repeat([]byte("noise"), 1<<16)...)
		stdout := bytes.NewReader(stream)

		starter.EXPECT().Start(gomock.Any(), runnerPath, "list-plugins").Return(proc, nil)
		proc.EXPECT().Stdout().Return(stdout)
		proc.EXPECT().Wait().DoAndReturn(func() (*exec.CommandResult, error) {
			Expect(stdout.Len()).To(BeZero())

			return &exec.CommandResult{}, nil
		})

		descriptors, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(descriptors).To(HaveLen(1))
	})

	It("should wrap start failures", func() {
		starter.EXPECT().Start(gomock.Any(), runnerPath, "list-plugins").
			Return(nil, errors.New("permission denied"))

		_, err := l.ListPlugins(context.Background(), runnerPath)
		Expect(err).To(MatchError(ContainSubstring("launching plugin runner")))
	})
})

var _ = Describe("Launcher with a real runner", func() {
	writeRunner := func(body string) string {
		path := filepath.Join(GinkgoT().TempDir(), "runner")
		Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)).To(Succeed())

		return path
	}

	It("should list plugins from a shell runner", func() {
		path := writeRunner(`[ "$1" = list-plugins ] || exit 64
printf 'K 12\ndisplay-name\nV 3\nRGB\nK 13\ninternal-name\nV 3\nrgb\nK 13\nneeds-patches\nV 4\ntrue\nK 4\ntype\nV 5\ncodec\n\n\n'
`)

		descriptors, err := runner.NewLauncher(exec.NewProcessStarter()).ListPlugins(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(descriptors).To(Equal([]catalog.Descriptor{{
			DisplayName:  "RGB",
			InternalName: "rgb",
			Type:         catalog.SearchTypeCodec,
			NeedsPatches: true,
		}}))
	})

	It("should not deadlock on output larger than the pipe buffer", func() {
		path := writeRunner("printf '\\n'\nhead -c 1048576 /dev/zero\nexit 0\n")

		descriptors, err := runner.NewLauncher(exec.NewProcessStarter()).ListPlugins(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(descriptors).To(BeEmpty())
	})

	It("should surface the exit status of a failing runner", func() {
		path := writeRunner("echo 'no plugins dir' >&2\nexit 1\n")

		_, err := runner.NewLauncher(exec.NewProcessStarter()).ListPlugins(context.Background(), path)

		var exitErr *runner.SubprocessExitError
		Expect(errors.As(err, &exitErr)).To(BeTrue())
		Expect(exitErr.Stderr).To(ContainSubstring("no plugins dir"))
	})
})
