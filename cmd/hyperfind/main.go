// Package main provides the CLI entry point for hyperfind.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/crashdump"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeError indicates a failed command, including a grouped download
	// with at least one failed group.
	ExitCodeError = 1

	// ExitCodeCrash indicates an unexpected panic.
	ExitCodeCrash = 3
)

var (
	debugMode    bool
	traceMode    bool
	configPath   string
	globalConfig string
	noColorFlag  bool
	runnerFlag   string
	workersFlag  int
	rootFlag     string
	tempDirFlag  string
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Runs after a signal too: the cancelled context unwinds the command first.
	defer shutdown()

	// Registered after shutdown so the dump still sees the loaded config.
	defer func() {
		if r := recover(); r != nil {
			handlePanic(r)

			exitCode = ExitCodeCrash
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeError
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "hyperfind",
	Short: "Plugin catalog and result export engine",
	Long: `hyperfind lists the search plugins offered by a plugin-runner and exports
search results as temporary images, URI lists or grouped downloads.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		checkVersionFlag()

		crashCommand = &crashdump.CommandInfo{Path: cmd.CommandPath(), Args: args}
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&traceMode, "trace", false, "Enable trace logging")
	flags.StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to project configuration file (default: .hyperfind/config.toml or hyperfind.toml)",
	)
	flags.StringVar(
		&globalConfig,
		"global-config",
		"",
		"Path to global configuration file (default: $XDG_CONFIG_HOME/hyperfind/config.toml)",
	)
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	flags.StringVar(&runnerFlag, "runner", "", "Plugin-runner executable (overrides runner.path)")
	flags.IntVar(&workersFlag, "workers", 0, "Materialization workers (overrides materializer.workers)")
	flags.StringVar(&rootFlag, "root", "", "Backend root directory (overrides backend.root)")
	flags.StringVar(&tempDirFlag, "temp-dir", "", "Directory for temporary artifacts (overrides export.temp_dir)")
}

// buildFlagsMap converts CLI flags to a map for the config provider.
func buildFlagsMap() map[string]any {
	flags := make(map[string]any)

	if runnerFlag != "" {
		flags["runner"] = runnerFlag
	}

	if workersFlag > 0 {
		flags["workers"] = workersFlag
	}

	if rootFlag != "" {
		flags["root"] = rootFlag
	}

	if tempDirFlag != "" {
		flags["temp-dir"] = tempDirFlag
	}

	return flags
}
