// Package runnerchecker provides checkers for the plugin-runner executable.
package runnerchecker

//go:generate mockgen -source=runner_check.go -destination=lister_mock.go -package=runnerchecker

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/smykla-skalski/hyperfind/internal/catalog"
	"github.com/smykla-skalski/hyperfind/internal/doctor"
)

// DefaultCatalogTimeout bounds a catalog check run.
const DefaultCatalogTimeout = 10 * time.Second

// CatalogLister lists the plugins a runner offers.
type CatalogLister interface {
	ListPlugins(ctx context.Context, runnerPath string) ([]catalog.Descriptor, error)
}

// ExistsChecker checks that the plugin-runner resolves to an executable
type ExistsChecker struct {
	path     string
	lookPath func(string) (string, error)
}

// NewExistsChecker creates a new runner exists checker
func NewExistsChecker(path string) *ExistsChecker {
	return &ExistsChecker{path: path, lookPath: exec.LookPath}
}

// Name returns the name of the check
func (*ExistsChecker) Name() string {
	return "Plugin runner available"
}

// Category returns the category of the check
func (*ExistsChecker) Category() doctor.Category {
	return doctor.CategoryRunner
}

// Check performs the runner existence check
func (c *ExistsChecker) Check(_ context.Context) doctor.CheckResult {
	resolved, err := c.lookPath(c.path)
	if err != nil {
		return doctor.FailError(c.Name(), c.path+" not found or not executable").
			WithDetails(
				err.Error(),
				"Set runner.path in the config file or pass --runner",
			)
	}

	return doctor.Pass(c.Name(), "Found at "+resolved)
}

// CatalogChecker runs list-plugins and checks that the catalog parses
type CatalogChecker struct {
	lister  CatalogLister
	path    string
	timeout time.Duration
}

// NewCatalogChecker creates a new catalog checker
func NewCatalogChecker(lister CatalogLister, path string, timeout time.Duration) *CatalogChecker {
	if timeout <= 0 {
		timeout = DefaultCatalogTimeout
	}

	return &CatalogChecker{lister: lister, path: path, timeout: timeout}
}

// Name returns the name of the check
func (*CatalogChecker) Name() string {
	return "Plugin catalog readable"
}

// Category returns the category of the check
func (*CatalogChecker) Category() doctor.Category {
	return doctor.CategoryRunner
}

// Check performs the catalog check
func (c *CatalogChecker) Check(ctx context.Context) doctor.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	descriptors, err := c.lister.ListPlugins(ctx, c.path)
	if err != nil {
		return doctor.FailError(c.Name(), "list-plugins failed").WithDetails(err.Error())
	}

	if len(descriptors) == 0 {
		return doctor.FailWarning(c.Name(), "Runner reported no plugins")
	}

	codecs := len(catalog.Filter(descriptors, catalog.SearchTypeCodec))
	filters := len(catalog.Filter(descriptors, catalog.SearchTypeFilter))

	return doctor.Pass(c.Name(),
		fmt.Sprintf("%d plugin(s): %d codec, %d filter", len(descriptors), codecs, filters))
}
