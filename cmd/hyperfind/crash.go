package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/crashdump"
	"github.com/smykla-skalski/hyperfind/internal/workpool"
	"github.com/smykla-skalski/hyperfind/internal/xdg"
	"github.com/smykla-skalski/hyperfind/pkg/config"
)

const durationDisplayUnits = 2

// crashCommand is the invocation recorded in crash dumps.
var crashCommand *crashdump.CommandInfo

var dryRunFlag bool

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Manage crash dumps",
	Long: `Manage crash dumps created when hyperfind panics.

Subcommands:
  list   List crash dumps
  view   View crash dump details
  clean  Remove old crash dumps`,
}

var crashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crash dumps",
	Args:  cobra.NoArgs,
	RunE:  runCrashList,
}

var crashViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View crash dump details",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrashView,
}

var crashCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old crash dumps",
	Long: `Remove crash dumps older than crash_dump.max_age, then the oldest dumps
beyond crash_dump.max_dumps.`,
	Args: cobra.NoArgs,
	RunE: runCrashClean,
}

func init() {
	rootCmd.AddCommand(crashCmd)
	crashCmd.AddCommand(crashListCmd, crashViewCmd, crashCleanCmd)

	crashCleanCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false,
		"Show what would be removed without deleting")
}

// handlePanic writes a crash dump for a recovered panic.
func handlePanic(recovered any) {
	fmt.Fprintf(os.Stderr, "panic: %v\n", recovered)

	var (
		cfg      *config.Config
		crashCfg *config.CrashDumpConfig
	)

	if current != nil {
		cfg = current.cfg
		crashCfg = cfg.CrashDump
	}

	if !crashCfg.IsEnabled() {
		return
	}

	store, err := crashdump.NewStore(dumpDir(crashCfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create crash dump store: %v\n", err)

		return
	}

	collector := crashdump.NewCollector(version, crashdump.WithPoolStats(poolStats))
	info := collector.Collect(recovered, crashCommand, cfg)

	path, err := store.Write(info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write crash dump: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stderr, "crash dump saved to: %s\n", path)
}

func poolStats() []workpool.Stats {
	stats := make([]workpool.Stats, 0, len(pools))
	for _, p := range pools {
		stats = append(stats, p.Stats())
	}

	return stats
}

// dumpDir honors $XDG_STATE_HOME unless a directory was configured.
func dumpDir(c *config.CrashDumpConfig) string {
	if dir := c.GetDumpDir(); dir != config.DefaultCrashDumpDir {
		return dir
	}

	return xdg.DefaultResolver().CrashDumpDir()
}

func crashStore() (*crashdump.Store, *config.CrashDumpConfig, error) {
	env, err := loadEnvironment()
	if err != nil {
		return nil, nil, err
	}

	crashCfg := env.cfg.GetCrashDump()

	store, err := crashdump.NewStore(dumpDir(crashCfg))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open crash dump store")
	}

	return store, crashCfg, nil
}

func runCrashList(cmd *cobra.Command, _ []string) error {
	store, _, err := crashStore()
	if err != nil {
		return err
	}

	summaries, err := store.List()
	if err != nil {
		return errors.Wrap(err, "failed to list crash dumps")
	}

	out := cmd.OutOrStdout()

	if len(summaries) == 0 {
		fmt.Fprintln(out, "No crash dumps found.")
		fmt.Fprintf(out, "Directory: %s\n", store.Dir())

		return nil
	}

	fmt.Fprintf(out, "Directory: %s\n", store.Dir())
	fmt.Fprintf(out, "Total: %d\n\n", len(summaries))

	for i, s := range summaries {
		fmt.Fprintf(out, "%d. %s\n", i+1, s.ID)
		fmt.Fprintf(out, "   Time:  %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "   Panic: %s\n", s.PanicValue)
		fmt.Fprintf(out, "   Size:  %s\n\n", humanize.Bytes(uint64(max(s.Size, 0))))
	}

	return nil
}

func runCrashView(cmd *cobra.Command, args []string) error {
	store, _, err := crashStore()
	if err != nil {
		return err
	}

	info, err := store.Get(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "ID: %s\n", info.ID)
	fmt.Fprintf(out, "Timestamp: %s\n", info.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Panic: %s\n\n", info.PanicValue)

	if info.Command != nil {
		fmt.Fprintf(out, "Command: %s %s\n\n", info.Command.Path, strings.Join(info.Command.Args, " "))
	}

	fmt.Fprintf(out, "Runtime: %s %s/%s, %d CPU, %d goroutines\n",
		info.Runtime.GoVersion, info.Runtime.GOOS, info.Runtime.GOARCH,
		info.Runtime.NumCPU, info.Runtime.NumGoroutine)
	fmt.Fprintf(out, "Version: %s\n", info.Metadata.Version)

	if info.Metadata.WorkingDir != "" {
		fmt.Fprintf(out, "Working dir: %s\n", info.Metadata.WorkingDir)
	}

	if len(info.Config) > 0 {
		writeConfigSnapshot(out, info.Config)
	}

	fmt.Fprintln(out, "\nStack trace:")

	for line := range strings.SplitSeq(info.StackTrace, "\n") {
		if line != "" {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}

	return nil
}

func writeConfigSnapshot(out io.Writer, cfg map[string]any) {
	fmt.Fprintln(out, "\nConfiguration:")

	data, err := json.MarshalIndent(cfg, "  ", "  ")
	if err != nil {
		fmt.Fprintf(out, "  (failed to format config: %v)\n", err)

		return
	}

	fmt.Fprintf(out, "  %s\n", data)
}

func runCrashClean(cmd *cobra.Command, _ []string) error {
	store, crashCfg, err := crashStore()
	if err != nil {
		return err
	}

	maxDumps := crashCfg.GetMaxDumps()
	maxAge := crashCfg.GetMaxAge()

	removed, err := store.Prune(maxDumps, maxAge, dryRunFlag)
	if err != nil {
		return errors.Wrap(err, "failed to prune crash dumps")
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Retention: %d dumps, %s age\n", maxDumps, formatAge(maxAge))

	verb := "Removed"
	if dryRunFlag {
		verb = "Would remove"
	}

	fmt.Fprintf(out, "%s: %d dump(s)\n", verb, len(removed))

	for _, s := range removed {
		fmt.Fprintf(out, "  %s (%s)\n", s.ID, humanize.Time(s.Timestamp))
	}

	return nil
}

func formatAge(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(durationDisplayUnits).String()
}
