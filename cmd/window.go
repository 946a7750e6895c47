package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/period"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show the date window a preset resolves to",
	Args:  cobra.NoArgs,
	RunE:  runWindow,
}

func init() {
	rootCmd.AddCommand(windowCmd)
}

type windowOutput struct {
	Preset period.Preset `json:"preset"`
	period.Window
	Days int `json:"days"`
}

func runWindow(_ *cobra.Command, _ []string) error {
	p, w, err := resolveWindow()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(windowOutput{Preset: p, Window: w, Days: w.Days()})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title: p.Title(),
		Rows: [][]string{
			{"Preset", string(p)},
			{"From", w.From.String()},
			{"To", w.To.String()},
			{"Length", cli.FormatDays(w.Days())},
		},
	}))
	return nil
}
