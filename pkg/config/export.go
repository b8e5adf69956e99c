package config

const (
	// DefaultTempPrefix is the name prefix of temporary export artifacts.
	DefaultTempPrefix = "hyperfind-export-"

	// DefaultTempSuffix is the name suffix of temporary export artifacts.
	DefaultTempSuffix = ".png"

	// DefaultDownloadSubpath is the directory created under a grouped download destination.
	DefaultDownloadSubpath = "hyperfind-download"
)

// ExportConfig configures export artifacts.
type ExportConfig struct {
	// TempDir is where artifacts are written. Empty means the platform temp directory.
	TempDir string `json:"temp_dir,omitempty" koanf:"temp_dir" toml:"temp_dir,omitempty"`

	// TempPrefix is the artifact file name prefix.
	// Default: "hyperfind-export-"
	TempPrefix string `json:"temp_prefix,omitempty" koanf:"temp_prefix" toml:"temp_prefix,omitempty"`

	// TempSuffix is the artifact file name suffix.
	// Default: ".png"
	TempSuffix string `json:"temp_suffix,omitempty" koanf:"temp_suffix" toml:"temp_suffix,omitempty"`

	// DownloadSubpath is created under the grouped download destination.
	// Default: "hyperfind-download"
	DownloadSubpath string `json:"download_subpath,omitempty" koanf:"download_subpath" toml:"download_subpath,omitempty"`

	// CleanupOnExit removes registered artifacts when the process exits.
	// Default: true
	CleanupOnExit *bool `json:"cleanup_on_exit,omitempty" koanf:"cleanup_on_exit" toml:"cleanup_on_exit,omitempty"`
}

// GetTempPrefix returns the artifact prefix or the default.
func (e *ExportConfig) GetTempPrefix() string {
	if e == nil || e.TempPrefix == "" {
		return DefaultTempPrefix
	}

	return e.TempPrefix
}

// GetTempSuffix returns the artifact suffix or the default.
func (e *ExportConfig) GetTempSuffix() string {
	if e == nil || e.TempSuffix == "" {
		return DefaultTempSuffix
	}

	return e.TempSuffix
}

// GetDownloadSubpath returns the grouped download subpath or the default.
func (e *ExportConfig) GetDownloadSubpath() string {
	if e == nil || e.DownloadSubpath == "" {
		return DefaultDownloadSubpath
	}

	return e.DownloadSubpath
}

// IsCleanupOnExit returns whether artifacts are removed at exit.
func (e *ExportConfig) IsCleanupOnExit() bool {
	if e == nil || e.CleanupOnExit == nil {
		return true
	}

	return *e.CleanupOnExit
}
