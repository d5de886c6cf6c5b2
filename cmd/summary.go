package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/dashboard"
	"github.com/sdshc/costshare/internal/format"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print program totals and the practice, year and impact rollups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("summary"); err != nil {
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
		return writeSummary(os.Stdout, out, snap)
	},
}

// summaryReport is the structured form of the summary command.
type summaryReport struct {
	RunID     string                         `json:"run_id" yaml:"run_id"`
	Segment   conservation.Segment           `json:"segment" yaml:"segment"`
	Overview  conservation.Overview          `json:"overview" yaml:"overview"`
	Practices []conservation.PracticeSummary `json:"practices" yaml:"practices"`
	Years     []conservation.YearSummary     `json:"years" yaml:"years"`
	Impact    []conservation.ImpactSummary   `json:"impact" yaml:"impact"`
}

func writeSummary(w io.Writer, out string, snap *dashboard.Snapshot) error {
	if out != formatTable {
		return writeStructured(w, out, summaryReport{
			RunID:     snap.RunID,
			Segment:   snap.Segment,
			Overview:  snap.Views.Overview,
			Practices: snap.Views.Practices,
			Years:     snap.Views.Years,
			Impact:    snap.Views.Impact,
		})
	}

	formatOverview(w, snap.Segment, snap.Views.Overview)
	_, _ = fmt.Fprintln(w)
	formatPractices(w, snap.Views.Practices, snap.Views.Overview.TotalFunding)
	_, _ = fmt.Fprintln(w)
	formatYears(w, snap.Views.Years)
	_, _ = fmt.Fprintln(w)
	formatImpact(w, snap.Views.Impact)
	return nil
}

// formatOverview writes the program totals as aligned key/value lines.
func formatOverview(out io.Writer, seg conservation.Segment, o conservation.Overview) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Segment:\t%s\n", seg)
	_, _ = fmt.Fprintf(w, "Farms:\t%s\n", format.Number(float64(o.TotalFarms)))
	_, _ = fmt.Fprintf(w, "Producers:\t%s\n", format.Number(float64(o.TotalProducers)))
	_, _ = fmt.Fprintf(w, "Contracts:\t%s (%s funded)\n",
		format.Number(float64(o.TotalContracts)),
		format.Percent(float64(o.FundedContracts), float64(o.TotalContracts)))
	_, _ = fmt.Fprintf(w, "Acres:\t%s\n", format.Number(o.TotalAcres))
	_, _ = fmt.Fprintf(w, "Total funding:\t%s\n", format.Currency(o.TotalFunding))
	_, _ = fmt.Fprintf(w, "  Section 319:\t%s\t%s\n", format.Currency(o.Funding319), format.Percent(o.Funding319, o.TotalFunding))
	_, _ = fmt.Fprintf(w, "  CWSRF:\t%s\t%s\n", format.Currency(o.FundingCWSRF), format.Percent(o.FundingCWSRF, o.TotalFunding))
	_, _ = fmt.Fprintf(w, "  Local:\t%s\t%s\n", format.Currency(o.FundingLocal), format.Percent(o.FundingLocal, o.TotalFunding))
	_, _ = fmt.Fprintf(w, "Nitrogen reduction:\t%s lbs/yr\n", format.Number(o.NitrogenReduction))
	_, _ = fmt.Fprintf(w, "Phosphorus reduction:\t%s lbs/yr\n", format.Number(o.PhosphorusReduction))
	_, _ = fmt.Fprintf(w, "Sediment reduction:\t%s tons/yr\n", format.Number(o.SedimentReduction))
	if o.Earliest != nil && o.Latest != nil {
		_, _ = fmt.Fprintf(w, "Period:\t%s to %s\n", o.Earliest.Format("2006-01-02"), o.Latest.Format("2006-01-02"))
	}
	_ = w.Flush()
}

// formatPractices writes the practice rollup with each practice's share of
// total funding.
func formatPractices(out io.Writer, practices []conservation.PracticeSummary, totalFunding float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PRACTICE\tCONTRACTS\tFUNDING\tSHARE\tACRES")
	_, _ = fmt.Fprintln(w, "--------\t---------\t-------\t-----\t-----")
	for _, p := range practices {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			p.Name,
			p.Contracts,
			format.Currency(p.Funding),
			format.Percent(p.Funding, totalFunding),
			format.Number(p.Acres),
		)
	}
	_ = w.Flush()
}

// formatYears writes the timeline rollup.
func formatYears(out io.Writer, years []conservation.YearSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "YEAR\tCONTRACTS\tFUNDING\t319\tCWSRF\tLOCAL\tACRES")
	_, _ = fmt.Fprintln(w, "----\t---------\t-------\t---\t-----\t-----\t-----")
	for _, y := range years {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			strconv.Itoa(y.Year),
			y.Contracts,
			format.Currency(y.Funding),
			format.Thousands(y.Amount319),
			format.Thousands(y.AmountCWSRF),
			format.Thousands(y.AmountLocal),
			format.Number(y.Acres),
		)
	}
	_ = w.Flush()
}

// formatImpact writes the impact ranking.
func formatImpact(out io.Writer, impact []conservation.ImpactSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tPRACTICE\tNITROGEN\tPHOSPHORUS\tSEDIMENT\tACRES")
	_, _ = fmt.Fprintln(w, "----\t--------\t--------\t----------\t--------\t-----")
	for i, s := range impact {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			s.Practice,
			format.Number(s.Nitrogen),
			format.Number(s.Phosphorus),
			format.Number(s.Sediment),
			format.Number(s.Acres),
		)
	}
	_ = w.Flush()
}

func init() {
	summaryCmd.Flags().String("segment", "", "segment to report: all, 1, 2 or 3 (default from config)")
	summaryCmd.Flags().String("format", formatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(summaryCmd)
}
