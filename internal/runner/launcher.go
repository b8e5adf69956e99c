// Package runner launches the external plugin-runner and turns its output into a plugin catalog.
package runner

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/catalog"
	"github.com/smykla-skalski/hyperfind/internal/exec"
	"github.com/smykla-skalski/hyperfind/internal/wire"
	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

// ListPluginsCommand is the runner subcommand that prints the plugin list.
const ListPluginsCommand = "list-plugins"

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Launcher) {
		l.log = log
	}
}

// WithLimits sets the limits applied while decoding runner output.
func WithLimits(limits wire.Limits) Option {
	return func(l *Launcher) {
		l.limits = limits
	}
}

// Launcher runs the plugin-runner and builds the catalog from its output.
type Launcher struct {
	starter exec.ProcessStarter
	log     logger.Logger
	limits  wire.Limits
}

// NewLauncher creates a Launcher that starts processes through starter.
func NewLauncher(starter exec.ProcessStarter, opts ...Option) *Launcher {
	l := &Launcher{
		starter: starter,
		log:     logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ListPlugins runs "<runnerPath> list-plugins" and returns the plugin catalog in
// the order the runner reported it. A non-zero exit fails the call even when the
// output parsed cleanly.
func (l *Launcher) ListPlugins(ctx context.Context, runnerPath string) ([]catalog.Descriptor, error) {
	log := l.log.With("runner", runnerPath)

	log.Debug("launching plugin runner", "command", ListPluginsCommand)

	proc, err := l.starter.Start(ctx, runnerPath, ListPluginsCommand)
	if err != nil {
		return nil, errors.Wrap(err, "launching plugin runner")
	}

	stdout := proc.Stdout()
	reader := wire.NewReader(stdout, wire.WithLimits(l.limits))

	records, readErr := reader.ReadRecordList()

	// The runner must never block on a full pipe, whatever we made of its output.
	drained, drainErr := io.Copy(io.Discard, stdout)
	if drainErr != nil {
		log.Debug("draining runner output failed", "error", drainErr)
	} else if drained > 0 {
		log.Debug("discarded trailing runner output", "bytes", drained)
	}

	result, err := proc.Wait()
	if err != nil {
		return nil, errors.Wrapf(err, "running plugin runner %s", runnerPath)
	}

	if !result.Success() {
		exitErr := &SubprocessExitError{
			Path:     runnerPath,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}

		log.Error("plugin runner failed", "exit_code", result.ExitCode, "records", len(records))

		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			return nil, errors.WithDetailf(exitErr, "runner stderr:\n%s", stderr)
		}

		return nil, exitErr
	}

	if readErr != nil {
		return nil, errors.Wrapf(readErr, "reading plugin list from %s", runnerPath)
	}

	descriptors, skipped, err := catalog.BuildWithSkipped(records)
	if err != nil {
		return nil, errors.Wrapf(err, "building plugin catalog from %s", runnerPath)
	}

	for _, s := range skipped {
		log.Debug("skipping plugin with unknown search type", "record", s.Record, "type", s.Type)
	}

	log.Info("plugin catalog loaded", "plugins", len(descriptors), "skipped", len(skipped))

	return descriptors, nil
}
