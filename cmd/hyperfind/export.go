package main

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/backend/filesystem"
	"github.com/smykla-skalski/hyperfind/internal/export"
	"github.com/smykla-skalski/hyperfind/internal/materialize"
)

var (
	exportFilesFlag   []string
	exportMatchFlag   []string
	exportURIListFlag string
	flavorFlag        string
	imageOutFlag      string
	keepFlag          bool
)

var exportCmd = &cobra.Command{
	Use:   "export [ids...]",
	Short: "Export results as a URI list or a single image",
	Long: `Materialize results and export them in one of three flavors:

  uri-list  one file:// URI per result, CRLF-terminated (default)
  text      the same list, as plain text
  image     the first result, written to --image-out as PNG

Results are object identifiers relative to the backend root, backend objects
matching --match, local files matching --files, or the entries of a
text/uri-list given with --uri-list ("-" reads stdin). The export fails as a
whole if any result fails.

Temporary images are removed on exit unless --keep is set or
export.cleanup_on_exit is false.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringArrayVar(&exportFilesFlag, "files", nil,
		"Local files to export, as a doublestar glob (repeatable)")
	exportCmd.Flags().StringArrayVar(&exportMatchFlag, "match", nil,
		"Backend objects to export, as a doublestar glob below the root (repeatable)")
	exportCmd.Flags().StringVar(&exportURIListFlag, "uri-list", "",
		`File holding a text/uri-list of local files ("-" for stdin)`)
	exportCmd.Flags().StringVar(&flavorFlag, "flavor", "uri-list",
		"Transfer flavor (uri-list, text, image)")
	exportCmd.Flags().StringVar(&imageOutFlag, "image-out", "",
		"Where to write the image flavor")
	exportCmd.Flags().BoolVar(&keepFlag, "keep", false,
		"Keep temporary images after exit")
}

func runExport(cmd *cobra.Command, args []string) error {
	flavor, err := export.ParseFlavor(flavorFlag)
	if err != nil {
		return err
	}

	if flavor == export.FlavorImage && imageOutFlag == "" {
		return errors.New("--image-out is required for the image flavor")
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if keepFlag {
		keep := false
		env.cfg.GetExport().CleanupOnExit = &keep
	}

	ctx := commandContext(cmd)

	agg, backend, err := env.newAggregator(ctx)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(cmd.InOrStdin(), backend, args)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		return errors.New("nothing to export: pass identifiers, --match, --files or --uri-list")
	}

	if flavor == export.FlavorImage {
		data, err := agg.NewBatch(inputs).TransferData(ctx, flavor)
		if err != nil {
			return err
		}

		img, _ := data.(image.Image)
		if err := writePNGFile(imageOutFlag, img); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), imageOutFlag)

		return nil
	}

	payload, err := agg.ExportAggregate(ctx, inputs)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), payload.URIList)

	return nil
}

// collectInputs gathers inputs in a fixed order: identifiers, backend
// matches, local files, then the URI list.
func collectInputs(stdin io.Reader, backend *filesystem.Backend, ids []string) ([]materialize.Input, error) {
	inputs := make([]materialize.Input, 0, len(ids))

	for _, id := range ids {
		inputs = append(inputs, materialize.FromID(materialize.ObjectID(id)))
	}

	for _, pattern := range exportMatchFlag {
		matched, err := backend.Glob(pattern)
		if err != nil {
			return nil, err
		}

		for _, id := range matched {
			inputs = append(inputs, materialize.FromID(id))
		}
	}

	for _, pattern := range exportFilesFlag {
		files, err := filesystem.ReadInputs(pattern)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, files...)
	}

	if exportURIListFlag != "" {
		files, err := readURIList(stdin, exportURIListFlag)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, files...)
	}

	return inputs, nil
}

func readURIList(stdin io.Reader, path string) ([]materialize.Input, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, errors.Wrap(err, "reading URI list")
	}

	uris, err := export.ParseURIList(string(data))
	if err != nil {
		return nil, err
	}

	paths, err := export.LocalPaths(uris)
	if err != nil {
		return nil, err
	}

	return filesystem.ReadFiles(paths)
}

func writePNGFile(path string, img image.Image) error {
	if img == nil {
		return errors.New("no image to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating image file")
	}

	w := bufio.NewWriter(f)

	err = png.Encode(w, img)
	if err == nil {
		err = w.Flush()
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return errors.Wrapf(err, "writing %s", path)
}
