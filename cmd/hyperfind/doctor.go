package main

import (
	"os"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/color"
	internalconfig "github.com/smykla-skalski/hyperfind/internal/config"
	"github.com/smykla-skalski/hyperfind/internal/doctor"
	configchecker "github.com/smykla-skalski/hyperfind/internal/doctor/checkers/config"
	runnerchecker "github.com/smykla-skalski/hyperfind/internal/doctor/checkers/runner"
	storagechecker "github.com/smykla-skalski/hyperfind/internal/doctor/checkers/storage"
	"github.com/smykla-skalski/hyperfind/internal/exec"
	"github.com/smykla-skalski/hyperfind/internal/report"
	"github.com/smykla-skalski/hyperfind/internal/runner"
	"github.com/smykla-skalski/hyperfind/internal/wire"
)

var (
	doctorVerbose    bool
	doctorCategories []string
	doctorTimeout    time.Duration
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the hyperfind setup",
	Long: `Run health checks against the configuration, the plugin-runner and the
directories exports use. Exits non-zero when any check fails with an error.

Categories: config, runner, storage.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "Show details for passing checks")
	doctorCmd.Flags().StringSliceVar(&doctorCategories, "category", nil,
		"Only run checks in these categories (config, runner, storage)")
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", runnerchecker.DefaultCatalogTimeout,
		"Time limit for listing plugins")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	categories, err := parseCategories(doctorCategories)
	if err != nil {
		return err
	}

	loader, err := newLoader()
	if err != nil {
		return err
	}

	env, err := doctorEnvironment(loader)
	if err != nil {
		return err
	}

	rc := env.cfg.GetRunner()
	launcher := runner.NewLauncher(
		exec.NewProcessStarter(),
		runner.WithLogger(env.log),
		runner.WithLimits(wire.Limits{MaxFieldLength: rc.GetMaxFieldLength()}),
	)

	registry := doctor.NewRegistry()
	registry.RegisterChecker(configchecker.NewValidChecker(loader, buildFlagsMap()))
	registry.RegisterChecker(runnerchecker.NewExistsChecker(rc.GetPath()))
	registry.RegisterChecker(runnerchecker.NewCatalogChecker(launcher, rc.GetPath(), doctorTimeout))
	registry.RegisterChecker(storagechecker.NewTempDirChecker(env.cfg.GetExport().TempDir))
	registry.RegisterChecker(storagechecker.NewBackendRootChecker(env.cfg.GetBackend().GetRoot()))

	r := doctor.NewRunner(registry, report.NewCheckReporter(cmd.OutOrStdout(), env.theme), env.log)

	return r.Run(commandContext(cmd), doctor.RunOptions{
		Verbose:    doctorVerbose,
		Categories: categories,
	})
}

// doctorEnvironment loads the environment without failing on a broken
// config, which the config check reports instead.
func doctorEnvironment(loader *internalconfig.KoanfLoader) (*environment, error) {
	if env, err := loadEnvironment(); err == nil {
		return env, nil
	}

	cfg, err := loader.LoadWithoutValidation(buildFlagsMap())
	if err != nil {
		cfg = internalconfig.DefaultConfig()
	}

	log, err := openLogger(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	current = &environment{
		cfg:   cfg,
		log:   log,
		theme: color.NewTheme(color.Enabled(os.Stdout, noColorFlag)),
	}

	return current, nil
}

func parseCategories(names []string) ([]doctor.Category, error) {
	categories := make([]doctor.Category, 0, len(names))

	for _, name := range names {
		c := doctor.Category(name)
		if !slices.Contains(doctor.Categories(), c) {
			return nil, errors.Newf("unknown category %q (want config, runner or storage)", name)
		}

		categories = append(categories, c)
	}

	return categories, nil
}
