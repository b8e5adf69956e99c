package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/backend/filesystem"
	"github.com/smykla-skalski/hyperfind/internal/export"
	"github.com/smykla-skalski/hyperfind/internal/materialize"
	"github.com/smykla-skalski/hyperfind/internal/report"
)

var (
	destFlag          string
	groupFlag         []string
	downloadFilesFlag []string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download results grouped by label",
	Long: `Materialize results and copy them into <dest>/hyperfind-download/<label>/.

Groups are given as label=id1,id2 with --group, or label=glob with --files for
local files. A label may be repeated to add items. Groups run concurrently and
fail independently; the command exits non-zero if any group failed, after
printing the full report.

Conventional labels are True-Pos, False-Pos and False-Neg.`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&destFlag, "dest", "", "Destination directory")
	downloadCmd.Flags().StringArrayVar(&groupFlag, "group", nil,
		"Group of backend objects as label=id1,id2 (repeatable)")
	downloadCmd.Flags().StringArrayVar(&downloadFilesFlag, "files", nil,
		"Group of local files as label=glob (repeatable)")

	_ = downloadCmd.MarkFlagRequired("dest")
}

func runDownload(cmd *cobra.Command, _ []string) error {
	groups, err := parseGroups(groupFlag, downloadFilesFlag)
	if err != nil {
		return err
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	agg, _, err := env.newAggregator(ctx)
	if err != nil {
		return err
	}

	rep := agg.ExportGrouped(ctx, destFlag, groups)

	fmt.Fprintln(cmd.OutOrStdout(), report.RenderDownload(rep, env.theme))

	if err := rep.Err(); err != nil {
		return errors.Wrapf(err, "%d of %d group(s) failed", len(rep.Failed()), len(rep.Groups))
	}

	return nil
}

// parseGroups merges --group and --files values into groups ordered by the
// first appearance of each label.
func parseGroups(idSpecs, fileSpecs []string) ([]export.Group, error) {
	var groups []export.Group

	index := map[string]int{}

	add := func(label string, inputs []materialize.Input) {
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, export.Group{Label: label})
		}

		groups[i].Inputs = append(groups[i].Inputs, inputs...)
	}

	for _, spec := range idSpecs {
		label, list, err := splitSpec(spec)
		if err != nil {
			return nil, err
		}

		var inputs []materialize.Input

		for id := range strings.SplitSeq(list, ",") {
			if id = strings.TrimSpace(id); id != "" {
				inputs = append(inputs, materialize.FromID(materialize.ObjectID(id)))
			}
		}

		add(label, inputs)
	}

	for _, spec := range fileSpecs {
		label, pattern, err := splitSpec(spec)
		if err != nil {
			return nil, err
		}

		inputs, err := filesystem.ReadInputs(pattern)
		if err != nil {
			return nil, err
		}

		add(label, inputs)
	}

	if len(groups) == 0 {
		return nil, errors.New("at least one --group or --files is required")
	}

	return groups, nil
}

func splitSpec(spec string) (string, string, error) {
	label, value, ok := strings.Cut(spec, "=")
	if !ok || value == "" {
		return "", "", errors.Newf("invalid group %q: want label=value", spec)
	}

	return label, value, nil
}
