package config

import (
	"github.com/smykla-skalski/hyperfind/pkg/config"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	cleanup := true
	crashDumps := true

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Runner: &config.RunnerConfig{
			Path:           config.DefaultRunnerPath,
			MaxFieldLength: config.DefaultMaxFieldLength,
		},
		Materializer: &config.MaterializerConfig{
			Workers:     config.DefaultWorkers,
			IdleTimeout: config.Duration(config.DefaultIdleTimeout),
			Attributes:  append([]string(nil), config.DefaultAttributes...),
		},
		Export: &config.ExportConfig{
			TempPrefix:      config.DefaultTempPrefix,
			TempSuffix:      config.DefaultTempSuffix,
			DownloadSubpath: config.DefaultDownloadSubpath,
			CleanupOnExit:   &cleanup,
		},
		Backend: &config.BackendConfig{
			Root: ".",
		},
		CrashDump: &config.CrashDumpConfig{
			Enabled:  &crashDumps,
			DumpDir:  config.DefaultCrashDumpDir,
			MaxDumps: config.DefaultMaxDumps,
			MaxAge:   config.Duration(config.DefaultMaxDumpAge),
		},
	}
}

// defaultsToMap converts the defaults to a map for koanf loading.
func defaultsToMap() map[string]any {
	attrs := make([]any, 0, len(config.DefaultAttributes))
	for _, a := range config.DefaultAttributes {
		attrs = append(attrs, a)
	}

	return map[string]any{
		"version": config.CurrentConfigVersion,
		"runner": map[string]any{
			"path":             config.DefaultRunnerPath,
			"max_field_length": config.DefaultMaxFieldLength,
		},
		"materializer": map[string]any{
			"workers":      config.DefaultWorkers,
			"min_workers":  0,
			"idle_timeout": config.DefaultIdleTimeout.String(),
			"attributes":   attrs,
		},
		"export": map[string]any{
			"temp_dir":         "",
			"temp_prefix":      config.DefaultTempPrefix,
			"temp_suffix":      config.DefaultTempSuffix,
			"download_subpath": config.DefaultDownloadSubpath,
			"cleanup_on_exit":  true,
		},
		"backend": map[string]any{
			"root": ".",
		},
		"crash_dump": map[string]any{
			"enabled":   true,
			"dump_dir":  config.DefaultCrashDumpDir,
			"max_dumps": config.DefaultMaxDumps,
			"max_age":   config.DefaultMaxDumpAge.String(),
		},
	}
}
