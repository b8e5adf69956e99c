package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/config"
	"github.com/smykla-skalski/hyperfind/internal/xdg"
)

var (
	globalFlag bool
	forceFlag  bool
	diffFlag   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hyperfind configuration",
	Long: `Write a configuration file holding every default.

By default, creates a project-local configuration file (.hyperfind/config.toml).
Use --global or -g to create the global configuration file
($XDG_CONFIG_HOME/hyperfind/config.toml).

Use --force to overwrite an existing configuration file, and --diff to see what
it would change without writing anything.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&globalFlag, "global", "g", false, "Initialize global configuration")
	initCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing configuration file")
	initCmd.Flags().BoolVar(&diffFlag, "diff", false, "Show the changes against the existing file without writing")
}

func runInit(cmd *cobra.Command, _ []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	writer := config.NewWriter(workDir)

	path := writer.ProjectConfigPath()

	switch {
	case globalFlag && globalConfig != "":
		path = globalConfig
	case globalFlag:
		path = xdg.GlobalConfigFile()
	case configPath != "":
		path = configPath
	}

	if diffFlag {
		diff, err := config.Diff(path, config.DefaultConfig())
		if err != nil {
			return err
		}

		if diff == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already holds the defaults\n", path)
		}

		fmt.Fprint(cmd.OutOrStdout(), diff)

		return nil
	}

	if err := writer.WriteFile(path, config.DefaultConfig(), forceFlag); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

	return nil
}
