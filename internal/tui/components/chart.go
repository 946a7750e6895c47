package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Series is one set of bars in a PairedBarChart.
type Series struct {
	Values []float64
	Color  lipgloss.Color
}

// PairedBarChart draws claims and payments side by side per slot, sharing one
// y axis. When there are more slots than fit, neighbouring slots are summed
// into buckets so the chart keeps the window's totals.
func PairedBarChart(claims, payments Series, labels []string, width, height int) string {
	n := max(len(claims.Values), len(payments.Values))
	if n == 0 {
		return ""
	}
	if width < 20 || height < 3 {
		return Sparkline(claims.Values, claims.Color) + "\n" + Sparkline(payments.Values, payments.Color)
	}
	t := theme.Active

	a := padValues(claims.Values, n)
	b := padValues(payments.Values, n)

	maxVal := 0.0
	for i := range n {
		maxVal = max(maxVal, a[i], b[i])
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)

	// Each slot is two bars and a one-column gap.
	const gap = 1
	barW := (chartW - (n - 1)) / (2 * n)
	if barW < 1 {
		slots := max((chartW+gap)/(2+gap), 1)
		a, b, labels = bucketSum(a, b, labels, slots)
		n = len(a)
		barW = 1
	}
	barW = min(barW, 4)
	slotW := 2 * barW
	axisLen := n*slotW + max(0, n-1)*gap

	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	claimStyle := lipgloss.NewStyle().Foreground(claims.Color).Background(t.Surface)
	payStyle := lipgloss.NewStyle().Foreground(payments.Color).Background(t.Surface)

	var sb strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		sb.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		sb.WriteString(axisStyle.Render("│"))
		for i := range n {
			if i > 0 {
				sb.WriteString(bg.Render(strings.Repeat(" ", gap)))
			}
			sb.WriteString(claimStyle.Render(barCell(a[i], rowBottom, rowTop, barW)))
			sb.WriteString(payStyle.Render(barCell(b[i], rowBottom, rowTop, barW)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	sb.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		sb.WriteString("\n")
		sb.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
		sb.WriteString(axisStyle.Render(xAxisLabels(labels, slotW+gap, axisLen)))
	}
	return sb.String()
}

func barCell(v, rowBottom, rowTop float64, w int) string {
	switch {
	case v >= rowTop:
		return strings.Repeat("█", w)
	case v > rowBottom:
		frac := (v - rowBottom) / (rowTop - rowBottom)
		idx := min(max(int(frac*8), 1), 8)
		return strings.Repeat(string(sparkBlocks[idx-1]), w)
	default:
		return strings.Repeat(" ", w)
	}
}

func padValues(v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}

// bucketSum folds a and b into at most slots buckets. Each bucket takes the
// label of its first element.
func bucketSum(a, b []float64, labels []string, slots int) ([]float64, []float64, []string) {
	n := len(a)
	size := (n + slots - 1) / slots
	var outA, outB []float64
	var outL []string
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		var sa, sb float64
		for i := start; i < end; i++ {
			sa += a[i]
			sb += b[i]
		}
		outA = append(outA, sa)
		outB = append(outB, sb)
		if len(labels) == n {
			outL = append(outL, labels[start])
		}
	}
	return outA, outB, outL
}

// xAxisLabels places labels under their slots, skipping any that would
// collide with the previous one.
func xAxisLabels(labels []string, step, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := min(i*step, axisLen-len(lbl))
		if pos < 0 || pos <= lastEnd {
			continue
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	scaled := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("%.0f%s", v/div, suffix)
		}
		return fmt.Sprintf("%.1f%s", v/div, suffix)
	}
	switch {
	case v >= 1e9:
		return scaled(1e9, "B")
	case v >= 1e6:
		return scaled(1e6, "M")
	case v >= 1e3:
		return scaled(1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
