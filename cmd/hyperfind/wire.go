package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/wire"
)

var wireCmd = &cobra.Command{
	Use:   "wire",
	Short: "Inspect the plugin-runner record protocol",
	Long: `Convert between the framed record protocol spoken by the plugin-runner and
JSON. Values are treated as text.`,
}

var wireDecodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a record list into JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWireDecode,
}

var wireEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Encode a JSON array of objects as a record list",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWireEncode,
}

func init() {
	rootCmd.AddCommand(wireCmd)
	wireCmd.AddCommand(wireDecodeCmd, wireEncodeCmd)
}

func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}

	return f, nil
}

func runWireDecode(cmd *cobra.Command, args []string) error {
	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := wire.NewReader(in).ReadRecordList()
	if err != nil {
		return err
	}

	out := make([]map[string]string, 0, len(records))

	for _, rec := range records {
		m := make(map[string]string, len(rec))
		for k, v := range rec {
			m[k] = string(v)
		}

		out = append(out, m)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(out), "encoding json")
}

func runWireEncode(cmd *cobra.Command, args []string) error {
	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	var objects []map[string]string
	if err := json.NewDecoder(in).Decode(&objects); err != nil {
		return errors.Wrap(err, "decoding json")
	}

	records := make([]wire.Record, 0, len(objects))

	for _, obj := range objects {
		rec := make(wire.Record, len(obj))
		for k, v := range obj {
			rec[k] = []byte(v)
		}

		records = append(records, rec)
	}

	return wire.NewWriter(cmd.OutOrStdout()).WriteRecordList(records)
}
