package main

import (
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/hyperfind/internal/schema"
)

var compactFlag bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := schema.GenerateJSON(!compactFlag)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&compactFlag, "compact", false, "Print without indentation")
}
