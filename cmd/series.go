package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
)

var flagFill bool

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Daily claims and payments for the selected period",
	Args:  cobra.NoArgs,
	RunE:  runSeries,
}

func init() {
	seriesCmd.Flags().BoolVar(&flagFill, "fill", false, "Include days with no activity (default from config report.fill_gaps)")
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(cmd *cobra.Command, _ []string) error {
	p, w, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}

	fill := appCfg.Report.FillGaps
	if cmd.Flags().Changed("fill") {
		fill = flagFill
	}
	points := pipeline.FilterWindow(r.Points, w)
	if fill {
		points = pipeline.FillGaps(r.Points, w)
	}

	if flagJSON {
		return printJSON(points)
	}

	if len(points) == 0 {
		fmt.Println("\n  No claims or payments in the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY ACTIVITY  %s", p.Title())))
	fmt.Println()

	rows := make([][]string, 0, len(points))
	claims := make([]float64, 0, len(points))
	payments := make([]float64, 0, len(points))
	for _, pt := range points {
		rows = append(rows, []string{
			pt.Date.String(),
			pt.Date.Weekday().String()[:3],
			cli.FormatAmount(pt.Claims),
			cli.FormatAmount(pt.Payments),
			cli.FormatAmount(pt.Claims.Sub(pt.Payments)),
		})
		claims = append(claims, pt.Claims.InexactFloat64())
		payments = append(payments, pt.Payments.InexactFloat64())
	}
	rows = append(rows, []string{cli.SeparatorRow}, totalsRow(points))

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Claims", "Payments", "Net"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  %s %s\n", cli.ClaimsStyle.Render("claims  "), cli.ClaimsStyle.Render(cli.RenderSparkline(claims)))
	fmt.Printf("  %s %s\n", cli.PaymentsStyle.Render("payments"), cli.PaymentsStyle.Render(cli.RenderSparkline(payments)))
	return nil
}

func totalsRow(points []model.Point) []string {
	var totals model.Point
	for _, pt := range points {
		totals.Claims = totals.Claims.Add(pt.Claims)
		totals.Payments = totals.Payments.Add(pt.Payments)
	}
	return []string{
		"Total", "",
		cli.FormatAmount(totals.Claims),
		cli.FormatAmount(totals.Payments),
		cli.FormatAmount(totals.Claims.Sub(totals.Payments)),
	}
}
