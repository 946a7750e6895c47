package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

// Tab is one preset in the tab bar. Key is the number that selects it.
type Tab struct {
	Preset period.Preset
	Key    rune
}

// Name is the label shown in the bar.
func (t Tab) Name() string {
	return t.Preset.Title()
}

// Tabs has one entry per preset, keyed 1..n in display order.
var Tabs = presetTabs()

func presetTabs() []Tab {
	tabs := make([]Tab, len(period.All))
	for i, p := range period.All {
		tabs[i] = Tab{Preset: p, Key: rune('1' + i)}
	}
	return tabs
}

const tabSeparator = " "

// TabVisualWidth is the rendered width of a tab, active or not.
// Inactive tabs carry a "[n]" key hint.
func TabVisualWidth(idx, activeIdx int) int {
	w := lipgloss.Width(Tabs[idx].Name()) + 2
	if idx != activeIdx {
		w += 3
	}
	return w
}

// RenderTabBar renders the preset tabs on a single row.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, tab := range Tabs {
		if i > 0 {
			b.WriteString(sepStyle.Render(tabSeparator))
		}
		if i == activeIdx {
			b.WriteString(activeStyle.Render(tab.Name()))
			continue
		}
		b.WriteString(keyStyle.Render("[" + string(tab.Key) + "]"))
		b.WriteString(inactiveStyle.Render(tab.Name()))
	}

	bar := b.String()
	if pad := width - lipgloss.Width(bar); pad > 0 {
		bar += sepStyle.Render(strings.Repeat(" ", pad))
	}
	return bar
}

// TabIdxByKey returns the tab index for a number key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabIdxByPreset returns the tab showing p, or 0 when none does.
func TabIdxByPreset(p period.Preset) int {
	for i, tab := range Tabs {
		if tab.Preset == p {
			return i
		}
	}
	return 0
}

// TabAtX maps a column in the tab bar to a tab index, or -1 past the last tab.
func TabAtX(x, activeIdx int) int {
	pos := 0
	for i := range Tabs {
		w := TabVisualWidth(i, activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSeparator)
	}
	return -1
}
