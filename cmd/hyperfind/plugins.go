package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/catalog"
	"github.com/smykla-skalski/hyperfind/internal/exec"
	"github.com/smykla-skalski/hyperfind/internal/report"
	"github.com/smykla-skalski/hyperfind/internal/runner"
	"github.com/smykla-skalski/hyperfind/internal/wire"
)

var (
	outputFlag     string
	pluginTypeFlag string
)

var pluginsCmd = &cobra.Command{
	Use:     "plugins",
	Aliases: []string{"list-plugins"},
	Short:   "List the plugins offered by the plugin-runner",
	Long: `Run "<runner> list-plugins" and print the plugin catalog in the order the
runner reported it. Plugins of an unknown type are left out.

Output formats: table (default), json, yaml, toml, cbor, markdown.`,
	Args: cobra.NoArgs,
	RunE: runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)

	pluginsCmd.Flags().StringVarP(&outputFlag, "output", "o", string(report.FormatTable),
		"Output format (table, json, yaml, toml, cbor, markdown)")
	pluginsCmd.Flags().StringVarP(&pluginTypeFlag, "type", "t", "",
		"Only list plugins of this type (codec, filter)")
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(outputFlag)
	if err != nil {
		return err
	}

	var only catalog.SearchType
	if pluginTypeFlag != "" {
		if only, err = catalog.ParseSearchType(pluginTypeFlag); err != nil {
			return err
		}
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	rc := env.cfg.GetRunner()

	launcher := runner.NewLauncher(
		exec.NewProcessStarter(),
		runner.WithLogger(env.log),
		runner.WithLimits(wire.Limits{MaxFieldLength: rc.GetMaxFieldLength()}),
	)

	descriptors, err := launcher.ListPlugins(commandContext(cmd), rc.GetPath())
	if err != nil {
		return err
	}

	if only != "" {
		descriptors = catalog.Filter(descriptors, only)
	}

	out := cmd.OutOrStdout()

	if format == report.FormatTable {
		fmt.Fprintln(out, report.RenderCatalog(descriptors, env.theme))

		return nil
	}

	return report.EncodeCatalog(out, format, descriptors)
}
