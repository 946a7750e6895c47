package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/config"
	"github.com/theirongolddev/claimtrack/internal/tui"
	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	p, opts, err := periodSelection()
	if err != nil {
		return err
	}

	src, srcName, closeSrc, err := openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	app := tui.NewApp(tui.Options{
		Source:     src,
		SourceName: srcName,
		Preset:     p,
		Period:     opts,
		Config:     appCfg,
		Logger:     logger,
		NeedSetup:  !config.Exists(),
	})

	prog := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
