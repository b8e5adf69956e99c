// Package exec provides abstractions for executing external commands.
package exec

//go:generate mockgen -source=process.go -destination=process_mock.go -package=exec

import (
	"context"
	"io"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// MaxStderrBytes bounds how much of a child's stderr is kept for error reports.
const MaxStderrBytes = 64 << 10

// CommandResult contains the outcome of a finished command.
type CommandResult struct {
	// Stderr holds at most MaxStderrBytes of the child's stderr.
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Process is a started command whose stdout is consumed as a stream.
type Process interface {
	// Stdout returns the child's stdout. It must be read to EOF before Wait.
	Stdout() io.Reader

	// Wait blocks until the process exits. A non-zero exit status is reported
	// through CommandResult.ExitCode, not as an error.
	Wait() (*CommandResult, error)
}

// ProcessStarter starts external commands.
type ProcessStarter interface {
	// Start launches name with args. Cancelling ctx kills the process.
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// processStarter implements ProcessStarter using os/exec.
type processStarter struct{}

// NewProcessStarter creates a ProcessStarter backed by os/exec.
func NewProcessStarter() ProcessStarter {
	return processStarter{}
}

// Start launches the command with a piped stdout and bounded stderr capture.
func (processStarter) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "creating stdout pipe for %s", name)
	}

	stderr := &boundedBuffer{limit: MaxStderrBytes}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", name)
	}

	return &process{
		ctx:    ctx,
		name:   name,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

type process struct {
	ctx    context.Context //nolint:containedctx // needed to tell a kill from a crash in Wait
	name   string
	cmd    *exec.Cmd
	stdout io.Reader
	stderr *boundedBuffer
}

func (p *process) Stdout() io.Reader {
	return p.stdout
}

func (p *process) Wait() (*CommandResult, error) {
	err := p.cmd.Wait()

	result := &CommandResult{Stderr: p.stderr.String()}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	if ctxErr := p.ctx.Err(); ctxErr != nil {
		return result, errors.Wrapf(ctxErr, "%s was interrupted", p.name)
	}

	if exitErr == nil {
		return result, errors.Wrapf(err, "waiting for %s", p.name)
	}

	return result, nil
}
