package runner

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrSubprocessExit is matched by every *SubprocessExitError.
var ErrSubprocessExit = errors.New("plugin runner exited with a failure status")

// SubprocessExitError reports a plugin-runner that exited non-zero.
// Whatever it printed before exiting is discarded.
type SubprocessExitError struct {
	Path     string
	ExitCode int
	// Stderr is the captured, possibly truncated, standard error of the runner.
	Stderr string
}

func (e *SubprocessExitError) Error() string {
	return fmt.Sprintf("plugin runner %s exited with status %d", e.Path, e.ExitCode)
}

// Is reports whether target is ErrSubprocessExit.
func (*SubprocessExitError) Is(target error) bool {
	return target == ErrSubprocessExit
}
