package config

import "time"

const (
	// DefaultCrashDumpDir is where crash dumps are written when none is configured.
	DefaultCrashDumpDir = "~/.local/state/hyperfind/crashes"

	// DefaultMaxDumps is the number of crash dumps kept by pruning.
	DefaultMaxDumps = 10

	// DefaultMaxDumpAge is the age after which crash dumps are pruned.
	DefaultMaxDumpAge = 30 * 24 * time.Hour
)

// CrashDumpConfig configures crash dumps written on panic.
type CrashDumpConfig struct {
	// Enabled turns crash dumps on or off.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// DumpDir is the directory crash dumps are written to. "~" is expanded.
	// Default: "~/.local/state/hyperfind/crashes"
	DumpDir string `json:"dump_dir,omitempty" koanf:"dump_dir" toml:"dump_dir,omitempty"`

	// MaxDumps is the number of dumps kept by "crash clean".
	// Default: 10
	MaxDumps int `json:"max_dumps,omitempty" jsonschema:"minimum=0" koanf:"max_dumps" toml:"max_dumps,omitempty"`

	// MaxAge removes dumps older than this in "crash clean".
	// Default: "720h"
	MaxAge Duration `json:"max_age,omitempty" koanf:"max_age" toml:"max_age,omitempty"`
}

// IsEnabled returns whether crash dumps are written.
func (c *CrashDumpConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// GetDumpDir returns the dump directory or the default.
func (c *CrashDumpConfig) GetDumpDir() string {
	if c == nil || c.DumpDir == "" {
		return DefaultCrashDumpDir
	}

	return c.DumpDir
}

// GetMaxDumps returns the retained dump count or the default.
func (c *CrashDumpConfig) GetMaxDumps() int {
	if c == nil || c.MaxDumps <= 0 {
		return DefaultMaxDumps
	}

	return c.MaxDumps
}

// GetMaxAge returns the maximum dump age or the default.
func (c *CrashDumpConfig) GetMaxAge() time.Duration {
	if c == nil || c.MaxAge <= 0 {
		return DefaultMaxDumpAge
	}

	return c.MaxAge.ToDuration()
}
