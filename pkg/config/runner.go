package config

import "time"

const (
	// DefaultRunnerPath is the plugin-runner looked up on $PATH when none is configured.
	DefaultRunnerPath = "snapfind-plugin-runner"

	// DefaultMaxFieldLength caps a single key or value in the framed protocol.
	DefaultMaxFieldLength = 64 << 20

	// DefaultWorkers is the size of the materialization worker pool.
	DefaultWorkers = 16

	// DefaultIdleTimeout is how long an idle worker waits before retiring.
	DefaultIdleTimeout = 500 * time.Millisecond
)

// DefaultAttributes are the backend attributes requested when regenerating a result.
// The empty name selects the object data itself.
var DefaultAttributes = []string{"", "_rows.int", "_cols.int"}

// RunnerConfig configures the plugin-runner subprocess.
type RunnerConfig struct {
	// Path is the plugin-runner executable.
	// Default: "snapfind-plugin-runner"
	Path string `json:"path,omitempty" koanf:"path" toml:"path,omitempty"`

	// MaxFieldLength is the largest key or value accepted from the runner, in bytes.
	// Default: 64 MiB
	MaxFieldLength int `json:"max_field_length,omitempty" jsonschema:"minimum=0" koanf:"max_field_length" toml:"max_field_length,omitempty"`
}

// GetPath returns the runner path or the default.
func (r *RunnerConfig) GetPath() string {
	if r == nil || r.Path == "" {
		return DefaultRunnerPath
	}

	return r.Path
}

// GetMaxFieldLength returns the field length limit or the default.
func (r *RunnerConfig) GetMaxFieldLength() int {
	if r == nil || r.MaxFieldLength <= 0 {
		return DefaultMaxFieldLength
	}

	return r.MaxFieldLength
}

// MaterializerConfig configures the materialization worker pool.
type MaterializerConfig struct {
	// Workers is the maximum number of tasks running at once.
	// Default: 16
	Workers int `json:"workers,omitempty" jsonschema:"minimum=0" koanf:"workers" toml:"workers,omitempty"`

	// MinWorkers is the number of workers kept alive while idle.
	// Default: 0
	MinWorkers int `json:"min_workers,omitempty" jsonschema:"minimum=0" koanf:"min_workers" toml:"min_workers,omitempty"`

	// IdleTimeout is how long a worker above MinWorkers waits for work before exiting.
	// Default: "500ms"
	IdleTimeout Duration `json:"idle_timeout,omitempty" koanf:"idle_timeout" toml:"idle_timeout,omitempty"`

	// Attributes are the backend attributes requested for each materialization.
	// Default: ["", "_rows.int", "_cols.int"]
	Attributes []string `json:"attributes,omitempty" koanf:"attributes" toml:"attributes,omitempty"`
}

// GetWorkers returns the worker count or the default.
func (m *MaterializerConfig) GetWorkers() int {
	if m == nil || m.Workers <= 0 {
		return DefaultWorkers
	}

	return m.Workers
}

// GetMinWorkers returns the minimum idle worker count, clamped to [0, workers].
func (m *MaterializerConfig) GetMinWorkers() int {
	if m == nil || m.MinWorkers <= 0 {
		return 0
	}

	return min(m.MinWorkers, m.GetWorkers())
}

// GetIdleTimeout returns the idle timeout or the default.
func (m *MaterializerConfig) GetIdleTimeout() time.Duration {
	if m == nil || m.IdleTimeout <= 0 {
		return DefaultIdleTimeout
	}

	return m.IdleTimeout.ToDuration()
}

// GetAttributes returns the requested attributes or the defaults.
func (m *MaterializerConfig) GetAttributes() []string {
	if m == nil || len(m.Attributes) == 0 {
		return DefaultAttributes
	}

	return m.Attributes
}
