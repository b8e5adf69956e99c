package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for hyperfind.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Runner configures the external plugin-runner.
	Runner *RunnerConfig `json:"runner,omitempty" koanf:"runner" toml:"runner,omitempty"`

	// Materializer configures the image materialization worker pool.
	Materializer *MaterializerConfig `json:"materializer,omitempty" koanf:"materializer" toml:"materializer,omitempty"`

	// Export configures temporary artifacts and grouped downloads.
	Export *ExportConfig `json:"export,omitempty" koanf:"export" toml:"export,omitempty"`

	// Backend configures the result backend used by the CLI.
	Backend *BackendConfig `json:"backend,omitempty" koanf:"backend" toml:"backend,omitempty"`

	// Log configures the log destination.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`

	// CrashDump configures crash dumps written on panic.
	CrashDump *CrashDumpConfig `json:"crash_dump,omitempty" koanf:"crash_dump" toml:"crash_dump,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// File is the log file path. "~" is expanded.
	// Default: "$XDG_STATE_HOME/hyperfind/hyperfind.log"
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}

// BackendConfig configures the filesystem result backend.
type BackendConfig struct {
	// Root is the directory object identifiers are resolved against.
	// Default: "."
	Root string `json:"root,omitempty" koanf:"root" toml:"root,omitempty"`
}

// GetRunner returns the runner config, creating it if it doesn't exist.
func (c *Config) GetRunner() *RunnerConfig {
	if c.Runner == nil {
		c.Runner = &RunnerConfig{}
	}

	return c.Runner
}

// GetMaterializer returns the materializer config, creating it if it doesn't exist.
func (c *Config) GetMaterializer() *MaterializerConfig {
	if c.Materializer == nil {
		c.Materializer = &MaterializerConfig{}
	}

	return c.Materializer
}

// GetExport returns the export config, creating it if it doesn't exist.
func (c *Config) GetExport() *ExportConfig {
	if c.Export == nil {
		c.Export = &ExportConfig{}
	}

	return c.Export
}

// GetBackend returns the backend config, creating it if it doesn't exist.
func (c *Config) GetBackend() *BackendConfig {
	if c.Backend == nil {
		c.Backend = &BackendConfig{}
	}

	return c.Backend
}

// GetLog returns the log config, creating it if it doesn't exist.
func (c *Config) GetLog() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	return c.Log
}

// GetCrashDump returns the crash dump config, creating it if it doesn't exist.
func (c *Config) GetCrashDump() *CrashDumpConfig {
	if c.CrashDump == nil {
		c.CrashDump = &CrashDumpConfig{}
	}

	return c.CrashDump
}

// GetRoot returns the backend root or ".".
func (b *BackendConfig) GetRoot() string {
	if b == nil || b.Root == "" {
		return "."
	}

	return b.Root
}
