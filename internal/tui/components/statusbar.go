package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Window  string // resolved window, e.g. "2024-01-01 .. 2024-01-31"
	Source  string // where the data came from
	DataAge string
	Loading bool
	Err     error
}

// RenderStatusBar renders the bottom status bar across width columns.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Error).Background(t.Surface).Bold(true)

	left := keyStyle.Render(" [?]") + base.Render("help ") +
		keyStyle.Render("[r]") + base.Render("eload ") +
		keyStyle.Render("[q]") + base.Render("uit")

	var right []string
	switch {
	case info.Err != nil:
		right = append(right, errStyle.Render("load failed"))
	case info.Loading:
		right = append(right, base.Render("loading..."))
	case info.DataAge != "":
		right = append(right, base.Render("loaded "+info.DataAge))
	}
	if info.Source != "" {
		right = append(right, base.Render(info.Source))
	}
	if info.Window != "" {
		right = append(right, keyStyle.Render(info.Window))
	}
	rightStr := strings.Join(right, base.Render("  ")) + base.Render(" ")

	pad := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	return left + base.Render(strings.Repeat(" ", pad)) + rightStr
}
