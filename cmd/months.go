package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months the selected period covers",
	Args:  cobra.NoArgs,
	RunE:  runMonths,
}

func init() {
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(_ *cobra.Command, _ []string) error {
	p, w, err := resolveWindow()
	if err != nil {
		return err
	}
	months := w.Months()

	if flagJSON {
		return printJSON(months)
	}

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{m.Key(), m.Label, strconv.Itoa(m.Year)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%s  %s", p.Title(), w),
		Headers: []string{"Month", "Name", "Year"},
		Rows:    rows,
	}))
	return nil
}
