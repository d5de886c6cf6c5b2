package main

import (
	"os"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print the normalized contract records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("records"); err != nil {
			return err
		}
		seg, _ := cmd.Flags().GetString("segment")
		out, _ := cmd.Flags().GetString("format")
		if err := checkFormat(out, formatJSON, formatYAML); err != nil {
			return err
		}

		snap, err := loadSnapshot(cmd.Context(), cfg, seg)
		if err != nil {
			return err
		}
		return writeStructured(os.Stdout, out, snap.Records)
	},
}

func init() {
	recordsCmd.Flags().String("segment", "", "segment to print: all, 1, 2 or 3 (default from config)")
	recordsCmd.Flags().String("format", formatJSON, "output format: json or yaml")
	rootCmd.AddCommand(recordsCmd)
}
