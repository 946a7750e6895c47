package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
)

var flagTop int

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Monthly claims, payments and outstanding balance",
	Args:  cobra.NoArgs,
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().IntVar(&flagTop, "top", -1, "Months to list by outstanding balance (default from config report.top_months)")
	rootCmd.AddCommand(breakdownCmd)
}

type breakdownOutput struct {
	Months []model.MonthStats `json:"months"`
	Top    []model.MonthStats `json:"top_outstanding"`
}

func runBreakdown(cmd *cobra.Command, _ []string) error {
	p, w, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}

	months := pipeline.MonthlyTotals(r.Points, w.Months())
	top := appCfg.Report.TopMonths
	if flagTop >= 0 {
		top = flagTop
	}
	ranked := pipeline.TopOutstanding(months, top)

	if flagJSON {
		return printJSON(breakdownOutput{Months: months, Top: ranked})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY BREAKDOWN  %s", p.Title())))
	fmt.Println()

	var claims, payments decimal.Decimal
	rows := make([][]string, 0, len(months)+2)
	for _, m := range months {
		rows = append(rows, []string{
			fmt.Sprintf("%s %d", m.Label, m.Year),
			cli.FormatAmount(m.Claims),
			cli.FormatAmount(m.Payments),
			cli.FormatAmount(m.Outstanding()),
			strconv.Itoa(m.Days),
		})
		claims = claims.Add(m.Claims)
		payments = payments.Add(m.Payments)
	}
	rows = append(rows, []string{cli.SeparatorRow}, []string{
		"Total",
		cli.FormatAmount(claims),
		cli.FormatAmount(payments),
		cli.FormatAmount(claims.Sub(payments)),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Claims", "Payments", "Outstanding", "Days"},
		Rows:    rows,
	}))

	var owing []model.MonthStats
	for _, m := range ranked {
		if m.Outstanding().IsPositive() {
			owing = append(owing, m)
		}
	}
	if len(owing) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("  " + cli.WarnStyle.Render("Largest outstanding"))
	peak := owing[0].Outstanding().InexactFloat64()
	for _, m := range owing {
		label := fmt.Sprintf("%-8s %14s", fmt.Sprintf("%s %d", m.Label, m.Year), cli.FormatAmount(m.Outstanding()))
		fmt.Println(cli.RenderHorizontalBar(label, m.Outstanding().InexactFloat64(), peak, 30, cli.WarnStyle))
	}
	return nil
}
