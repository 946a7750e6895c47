package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals for the selected period, compared with the one before",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

type summaryOutput struct {
	Preset   period.Preset      `json:"preset"`
	Current  model.SummaryStats `json:"current"`
	Previous model.SummaryStats `json:"previous"`
}

// previousWindow is the window of the same length ending the day before w.
func previousWindow(w period.Window) period.Window {
	return period.Window{From: w.From.AddDays(-w.Days()), To: w.From.AddDays(-1)}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	p, w, err := resolveWindow()
	if err != nil {
		return err
	}

	src, srcName, closeSrc, err := openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	r, err := pipeline.LoadReport(cmd.Context(), src, w)
	if err != nil {
		logLoadError(err)
		return err
	}
	warnDropped(r)

	prevW := previousWindow(w)
	prevR, err := pipeline.LoadReport(cmd.Context(), src, prevW)
	if err != nil {
		logLoadError(err)
		return fmt.Errorf("previous period: %w", err)
	}

	stats := pipeline.Summarize(r, w)
	prev := pipeline.Summarize(prevR, prevW)

	if flagJSON {
		return printJSON(summaryOutput{Preset: p, Current: stats, Previous: prev})
	}

	if stats.ClaimCount == 0 && stats.PaymentCount == 0 {
		fmt.Printf("\n  No claims or payments between %s and %s (%s).\n", w.From, w.To, srcName)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s", p.Title(), w)))
	fmt.Println()

	rows := [][]string{
		{"Claims", cli.FormatNumber(int64(stats.ClaimCount))},
		{"Payments", cli.FormatNumber(int64(stats.PaymentCount))},
		{"Active days", fmt.Sprintf("%d of %s", stats.ActiveDays, cli.FormatDays(w.Days()))},
		{cli.SeparatorRow},
		{"Claimed", cli.FormatAmount(stats.ClaimsTotal)},
		{"Paid", cli.FormatAmount(stats.PaymentsTotal)},
		{"Outstanding", cli.FormatAmount(stats.Outstanding)},
		{"Paid ratio", cli.FormatPercent(stats.PaidRatio)},
		{cli.SeparatorRow},
		{"Claimed/day", cli.FormatAmount(stats.ClaimsPerDay)},
	}
	if prev.ClaimCount > 0 || prev.PaymentCount > 0 {
		rows = append(rows,
			[]string{"vs previous claimed", cli.FormatDelta(stats.ClaimsTotal, prev.ClaimsTotal)},
			[]string{"vs previous paid", cli.FormatDelta(stats.PaymentsTotal, prev.PaymentsTotal)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if stats.Outstanding.IsPositive() && stats.PaidRatio < 0.5 {
		fmt.Println()
		fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("  Less than half of the claimed amount has been paid (%s).", cli.FormatPercent(stats.PaidRatio))))
	}
	if stats.DroppedPayments > 0 && !flagQuiet {
		fmt.Println()
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  %d payments had no usable date and were left out.", stats.DroppedPayments)))
	}
	return nil
}
