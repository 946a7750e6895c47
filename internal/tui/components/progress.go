package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

// PaidBar renders how much of the claimed total has been paid as a labelled
// bar. ratio is clamped to [0, 1]; overpayment shows as a full bar with the
// real percentage beside it.
func PaidBar(label string, ratio float64, labelW, barWidth int) string {
	t := theme.Active

	shown := min(max(ratio, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(ColorForRatio(ratio))),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(ColorForRatio(ratio)).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(shown) +
		space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", ratio*100))
}

// ColorForRatio colors a paid ratio: payments color when settled, the
// outstanding color when under half paid, accent in between.
func ColorForRatio(ratio float64) lipgloss.Color {
	t := theme.Active
	switch {
	case ratio >= 1:
		return t.Payments
	case ratio < 0.5:
		return t.Outstanding
	default:
		return t.Accent
	}
}
