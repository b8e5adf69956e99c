package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/release"
)

const (
	shortCommitLength = 12
	releaseTimeout    = 10 * time.Second

	// releaseAPIEnv points the release check at another GitHub API endpoint.
	releaseAPIEnv = "GITHUB_API_URL"
)

// Build information set by ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version and build information for hyperfind.",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var (
	// versionRequested is set by the --version/-v flag.
	versionRequested bool
	checkFlag        bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&checkFlag, "check", false, "Check GitHub for a newer release")
	rootCmd.Flags().BoolVarP(
		&versionRequested,
		"version",
		"v",
		false,
		"Print version information",
	)
	rootCmd.Run = func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	}
}

func checkVersionFlag() {
	if versionRequested {
		fmt.Print(versionString())
		os.Exit(0)
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, versionString())

	if !checkFlag {
		return nil
	}

	client, err := releaseClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), releaseTimeout)
	defer cancel()

	status, err := release.NewChecker(version, client).Check(ctx)
	if err != nil {
		return errors.Wrap(err, "release check failed")
	}

	printReleaseStatus(out, status)

	return nil
}

func releaseClient() (release.Client, error) {
	if base := os.Getenv(releaseAPIEnv); base != "" {
		return release.NewClientWithBaseURL(nil, base)
	}

	return release.NewClient(), nil
}

func printReleaseStatus(w io.Writer, status *release.Status) {
	if !status.UpdateAvailable {
		fmt.Fprintf(w, "\nUp to date (latest: %s)\n", status.Latest)

		return
	}

	fmt.Fprintf(w, "\nUpdate available: %s -> %s\n", status.Current, status.Latest)

	if status.URL != "" {
		fmt.Fprintf(w, "  %s\n", status.URL)
	}
}

func versionString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "hyperfind %s\n", version)
	fmt.Fprintf(&b, "  commit:    %s\n", commit)
	fmt.Fprintf(&b, "  built:     %s\n", date)
	fmt.Fprintf(&b, "  go:        %s\n", runtime.Version())
	fmt.Fprintf(&b, "  os/arch:   %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(&b, "  module:    %s\n", info.Main.Path)

		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" && commit == "unknown" {
				fmt.Fprintf(&b,
					"  vcs.rev:   %s\n",
					setting.Value[:min(shortCommitLength, len(setting.Value))],
				)
			}

			if setting.Key == "vcs.modified" && setting.Value == "true" {
				b.WriteString("  modified:  true\n")
			}
		}
	}

	return b.String()
}
