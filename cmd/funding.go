package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/format"
)

var fundingCmd = &cobra.Command{
	Use:   "funding",
	Short: "Print allocated, used and available funds by segment, fund and practice type",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("funding"); err != nil {
			return err
		}
		seg, _ := cmd.Flags().GetString("segment")
		out, _ := cmd.Flags().GetString("format")
		if err := checkFormat(out, formatTable, formatJSON, formatYAML); err != nil {
			return err
		}

		snap, err := loadSnapshot(cmd.Context(), cfg, seg)
		if err != nil {
			return err
		}
		return writeFunding(os.Stdout, out, snap.Views.Budget)
	},
}

func writeFunding(w io.Writer, out string, b conservation.Budget) error {
	if out != formatTable {
		return writeStructured(w, out, b)
	}

	sections := []struct {
		title string
		rows  []conservation.BudgetSummary
	}{
		{"SEGMENT", b.Segments},
		{"FUND", b.Funds},
		{"PRACTICE TYPE", b.PracticeTypes},
	}
	for i, s := range sections {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		formatBudget(w, s.title, s.rows)
	}
	return nil
}

// formatBudget writes one budget rollup with utilization.
func formatBudget(out io.Writer, title string, rows []conservation.BudgetSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\tALLOCATED\tUSED\tAVAILABLE\tUTILIZATION\n", title)
	_, _ = fmt.Fprintln(w, "-------\t---------\t----\t---------\t-----------")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			format.Currency(r.Allocated),
			format.Currency(r.Used),
			format.Currency(r.Available),
			format.Ratio(r.Utilization()),
		)
	}
	_ = w.Flush()
}

func init() {
	fundingCmd.Flags().String("segment", "", "segment to report: all, 1, 2 or 3 (default from config)")
	fundingCmd.Flags().String("format", formatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(fundingCmd)
}
