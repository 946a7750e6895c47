package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
	"github.com/theirongolddev/claimtrack/internal/tui/components"
	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

func (a App) renderOverview(cw int) string {
	t := theme.Active

	if a.loadErr != nil && a.lastLoaded.IsZero() {
		errStyle := lipgloss.NewStyle().Foreground(t.Error).Background(t.Surface)
		return components.ContentCard("Load failed", errStyle.Render(a.loadErr.Error()), cw)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(a.metrics(), cw))
	b.WriteString("\n")

	chartCard := a.renderChartCard(cw)
	if a.isCompactLayout() {
		b.WriteString(chartCard)
		b.WriteString("\n")
		b.WriteString(a.renderMonthsCard(cw))
		return b.String()
	}

	b.WriteString(chartCard)
	b.WriteString("\n")
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderMonthsCard(halves[0]),
		a.renderBalanceCard(halves[1]),
	}))
	return b.String()
}

func (a App) metrics() []components.Metric {
	t := theme.Active
	s := a.stats

	outColor := t.TextPrimary
	if s.Outstanding.IsPositive() {
		outColor = t.Outstanding
	}
	return []components.Metric{
		{
			Label: "Claims",
			Value: cli.FormatAmount(s.ClaimsTotal),
			Note:  fmt.Sprintf("%s events · %s/day", cli.FormatNumber(int64(s.ClaimCount)), cli.FormatAmount(s.ClaimsPerDay)),
			Color: t.Claims,
		},
		{
			Label: "Payments",
			Value: cli.FormatAmount(s.PaymentsTotal),
			Note:  paymentsNote(s),
			Color: t.Payments,
		},
		{
			Label: "Outstanding",
			Value: cli.FormatAmount(s.Outstanding),
			Note:  cli.FormatPercent(s.PaidRatio) + " paid",
			Color: outColor,
		},
		{
			Label: "Active days",
			Value: cli.FormatNumber(int64(s.ActiveDays)),
			Note:  "of " + cli.FormatDays(a.window.Days()),
		},
	}
}

func paymentsNote(s model.SummaryStats) string {
	note := cli.FormatNumber(int64(s.PaymentCount)) + " events"
	if s.DroppedPayments > 0 {
		note += fmt.Sprintf(" · %d undated", s.DroppedPayments)
	}
	return note
}

func (a App) renderChartCard(cw int) string {
	t := theme.Active

	claims := make([]float64, len(a.series))
	payments := make([]float64, len(a.series))
	labels := make([]string, len(a.series))
	for i, p := range a.series {
		claims[i] = p.Claims.InexactFloat64()
		payments[i] = p.Payments.InexactFloat64()
		labels[i] = p.Label
	}

	legend := lipgloss.NewStyle().Foreground(t.Claims).Background(t.Surface).Render("■ claims") +
		lipgloss.NewStyle().Background(t.Surface).Render("  ") +
		lipgloss.NewStyle().Foreground(t.Payments).Background(t.Surface).Render("■ payments")

	body := legend
	if len(a.series) == 0 {
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No activity in this window")
	} else {
		chartH := 10
		if a.isCompactLayout() {
			chartH = 6
		}
		body += "\n" + components.PairedBarChart(
			components.Series{Values: claims, Color: t.Claims},
			components.Series{Values: payments, Color: t.Payments},
			labels, components.CardInnerWidth(cw), chartH,
		)
	}
	return components.ContentCard(fmt.Sprintf("Daily activity (%s)", a.Preset().Title()), body, cw)
}

func (a App) renderMonthsCard(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	claimStyle := lipgloss.NewStyle().Foreground(t.Claims).Background(t.Surface)
	payStyle := lipgloss.NewStyle().Foreground(t.Payments).Background(t.Surface)
	outStyle := lipgloss.NewStyle().Foreground(t.Outstanding).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const labelW = 9
	numW := max((innerW-labelW)/3-1, 8)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s", labelW, "Month", numW, "Claims", numW, "Payments", numW, "Outstanding")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", min(labelW+3*(numW+1), innerW))))

	for _, m := range a.months {
		out := m.Outstanding()
		style := mutedStyle
		if out.IsPositive() {
			style = outStyle
		}
		body.WriteString("\n")
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, monthLabel(m))))
		body.WriteString(claimStyle.Render(fmt.Sprintf(" %*s", numW, cli.FormatCompact(m.Claims))))
		body.WriteString(payStyle.Render(fmt.Sprintf(" %*s", numW, cli.FormatCompact(m.Payments))))
		body.WriteString(style.Render(fmt.Sprintf(" %*s", numW, cli.FormatCompact(out))))
	}

	return components.ContentCard(fmt.Sprintf("Months (%d)", len(a.months)), body.String(), cw)
}

// renderBalanceCard shows the paid ratio and the months with the most left unpaid.
func (a App) renderBalanceCard(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var body strings.Builder
	body.WriteString(components.PaidBar("Paid", a.stats.PaidRatio, 6, max(innerW-12, 10)))
	body.WriteString("\n\n")

	top := a.cfg.Report.TopMonths
	if top == 0 {
		top = 3
	}
	var rows []model.MonthStats
	for _, m := range pipeline.TopOutstanding(a.months, top) {
		if m.Outstanding().IsPositive() {
			rows = append(rows, m)
		}
	}
	if len(rows) == 0 {
		body.WriteString(mutedStyle.Render("Nothing outstanding"))
	} else {
		body.WriteString(mutedStyle.Render("Largest balances"))
	}

	maxOut := 0.0
	for _, m := range rows {
		maxOut = max(maxOut, m.Outstanding().InexactFloat64())
	}
	barW := max(innerW-24, 4)
	barStyle := lipgloss.NewStyle().Foreground(t.Outstanding).Background(t.Surface)
	for _, m := range rows {
		v := m.Outstanding().InexactFloat64()
		n := 0
		if maxOut > 0 {
			n = min(max(int(v/maxOut*float64(barW)), 0), barW)
		}
		body.WriteString("\n")
		body.WriteString(valueStyle.Render(fmt.Sprintf("%-9s %12s ", monthLabel(m), cli.FormatAmount(m.Outstanding()))))
		body.WriteString(barStyle.Render(strings.Repeat("█", n)))
	}

	return components.ContentCard("Balance", body.String(), cw)
}

func monthLabel(m model.MonthStats) string {
	return fmt.Sprintf("%s %d", m.Label, m.Year)
}
