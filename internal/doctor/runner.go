package doctor

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

// ErrChecksFailed is returned when at least one check failed with error severity.
var ErrChecksFailed = errors.New("health checks failed")

// RunOptions selects what a Runner checks and how much it prints.
type RunOptions struct {
	Verbose bool

	// Categories limits the run; empty means every category.
	Categories []Category
}

// Runner executes the registry and hands the results to a Reporter.
type Runner struct {
	registry *Registry
	reporter Reporter
	log      logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(registry *Registry, reporter Reporter, log logger.Logger) *Runner {
	return &Runner{
		registry: registry,
		reporter: reporter,
		log:      log,
	}
}

// Run reports every result before returning, so warnings and errors are
// always visible. It fails with ErrChecksFailed only for error severity.
func (r *Runner) Run(ctx context.Context, opts RunOptions) error {
	results := r.registry.Run(ctx, opts.Categories)
	r.reporter.Report(results, opts.Verbose)

	summary := Summarize(results)
	r.log.Info("doctor finished",
		"checks", len(results),
		"errors", summary.Errors,
		"warnings", summary.Warnings,
	)

	if summary.Errors > 0 {
		return errors.Wrapf(ErrChecksFailed, "%d error(s)", summary.Errors)
	}

	return nil
}
