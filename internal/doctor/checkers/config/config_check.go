// Package configchecker provides checkers for configuration file validation.
package configchecker

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/hyperfind/internal/config"
	"github.com/smykla-skalski/hyperfind/internal/doctor"
	"github.com/smykla-skalski/hyperfind/pkg/config"
)

// Loader loads and locates configuration files.
type Loader interface {
	Load(flags map[string]any) (*config.Config, error)
	GlobalConfigPath() string
	HasGlobalConfig() bool
	FindProjectConfigPath() string
}

// ValidChecker loads every configuration layer and validates the result
type ValidChecker struct {
	loader Loader
	flags  map[string]any
}

// NewValidChecker creates a new config validity checker
func NewValidChecker(loader Loader, flags map[string]any) *ValidChecker {
	return &ValidChecker{loader: loader, flags: flags}
}

// Name returns the name of the check
func (*ValidChecker) Name() string {
	return "Configuration valid"
}

// Category returns the category of the check
func (*ValidChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check performs the config validity check
func (c *ValidChecker) Check(_ context.Context) doctor.CheckResult {
	sources := c.sources()

	if _, err := c.loader.Load(c.flags); err != nil {
		switch {
		case errors.Is(err, internalconfig.ErrInvalidPermissions):
			return doctor.FailError(c.Name(), "Insecure file permissions").
				WithDetails(
					err.Error(),
					"Fix with: chmod 600 <config-file>",
				)
		case errors.Is(err, internalconfig.ErrConfigNotFound):
			return doctor.FailError(c.Name(), "Config file not found").WithDetails(err.Error())
		case errors.Is(err, internalconfig.ErrInvalidConfig):
			return doctor.FailError(c.Name(), "Configuration validation failed").
				WithDetails(append(sources, fmt.Sprintf("Error: %v", err))...)
		default:
			return doctor.FailError(c.Name(), fmt.Sprintf("Failed to load: %v", err)).
				WithDetails(sources...)
		}
	}

	if len(sources) == 0 {
		return doctor.Pass(c.Name(), "Using defaults").
			WithDetails("Create one with: hyperfind init")
	}

	return doctor.Pass(c.Name(), "Valid").WithDetails(sources...)
}

func (c *ValidChecker) sources() []string {
	var sources []string

	if c.loader.HasGlobalConfig() {
		sources = append(sources, "Global: "+c.loader.GlobalConfigPath())
	}

	if path := c.loader.FindProjectConfigPath(); path != "" {
		sources = append(sources, "Project: "+path)
	}

	return sources
}
