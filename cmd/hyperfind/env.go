package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/artifact"
	"github.com/smykla-skalski/hyperfind/internal/backend/filesystem"
	"github.com/smykla-skalski/hyperfind/internal/color"
	internalconfig "github.com/smykla-skalski/hyperfind/internal/config"
	"github.com/smykla-skalski/hyperfind/internal/export"
	"github.com/smykla-skalski/hyperfind/internal/materialize"
	"github.com/smykla-skalski/hyperfind/internal/workpool"
	"github.com/smykla-skalski/hyperfind/internal/xdg"
	"github.com/smykla-skalski/hyperfind/pkg/config"
	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

// environment is what every command that touches config shares.
type environment struct {
	cfg   *config.Config
	log   *logger.SlogAdapter
	theme color.Theme
}

// Process-scoped state released by shutdown.
var (
	current   *environment
	artifacts *artifact.Registry
	pools     []*workpool.Pool
)

// loadEnvironment loads configuration and opens the logger.
func loadEnvironment() (*environment, error) {
	if current != nil {
		return current, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	log, err := openLogger(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	log.Debug("configuration loaded",
		"runner", cfg.GetRunner().GetPath(),
		"workers", cfg.GetMaterializer().GetWorkers(),
		"root", cfg.GetBackend().GetRoot(),
	)

	current = &environment{
		cfg:   cfg,
		log:   log,
		theme: color.NewTheme(color.Enabled(os.Stdout, noColorFlag)),
	}

	return current, nil
}

// loadConfig loads configuration from all sources with precedence.
func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, err
	}

	return loader.Load(buildFlagsMap())
}

// newLoader creates a config loader honoring --config and --global-config.
func newLoader() (*internalconfig.KoanfLoader, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	if configPath != "" {
		loader.SetProjectConfigPath(configPath)
	}

	if globalConfig != "" {
		loader.SetGlobalConfigPath(globalConfig)
	}

	return loader, nil
}

func openLogger(cfg *config.Config) (*logger.SlogAdapter, error) {
	path := xdg.DefaultResolver().LogFile()
	if file := cfg.GetLog().File; file != "" {
		expanded, err := xdg.ExpandPath(file)
		if err != nil {
			return nil, err
		}

		path = expanded
	}

	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return logger.NewFileLoggerWithWriter(os.Stderr, debugMode, traceMode), nil //nolint:nilerr // stderr fallback
	}

	log, err := logger.NewFileLogger(path, debugMode, traceMode)
	if err != nil {
		// Logging must not keep the tool from working.
		return logger.NewFileLoggerWithWriter(os.Stderr, debugMode, traceMode), nil //nolint:nilerr // stderr fallback
	}

	return log, nil
}

// newAggregator wires the worker pool, backend, materializer and artifact
// registry described by the configuration.
func (e *environment) newAggregator(ctx context.Context) (*export.Aggregator, *filesystem.Backend, error) {
	backend, err := filesystem.New(e.cfg.GetBackend().GetRoot())
	if err != nil {
		return nil, nil, err
	}

	mc := e.cfg.GetMaterializer()

	pool := workpool.New(workpool.Config{
		Workers:     mc.GetWorkers(),
		MinWorkers:  mc.GetMinWorkers(),
		IdleTimeout: mc.GetIdleTimeout(),
	}, workpool.WithLogger(e.log))
	pools = append(pools, pool)

	m := materialize.New(pool, backend,
		materialize.WithAttributes(mc.GetAttributes()),
		materialize.WithLogger(e.log),
		materialize.WithContext(ctx),
	)

	ec := e.cfg.GetExport()
	if artifacts == nil {
		artifacts = artifact.NewRegistry(ec.TempDir, ec.GetTempPrefix(), ec.GetTempSuffix())
	}

	agg := export.NewAggregator(m, artifacts,
		export.WithLogger(e.log),
		export.WithDownloadSubpath(ec.GetDownloadSubpath()),
	)

	return agg, backend, nil
}

// shutdown stops pools, removes artifacts and closes the log.
func shutdown() {
	for _, p := range pools {
		p.Close()
	}

	pools = nil

	if artifacts != nil && (current == nil || current.cfg.GetExport().IsCleanupOnExit()) {
		if err := artifacts.Cleanup(); err != nil && current != nil {
			current.log.Error("artifact cleanup failed", "error", err)
		}
	}

	artifacts = nil

	if current != nil {
		_ = current.log.Close()
		current = nil
	}
}

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
