// Package period resolves reporting-period presets into calendar-date windows
// and enumerates the months a window covers.
package period

import (
	"fmt"
	"strings"
)

// Preset is a named shorthand for a reporting date range.
type Preset string

// Supported presets.
const (
	CurrentMonth Preset = "current-month"
	LastMonth    Preset = "last-month"
	Last3Months  Preset = "last-3-months"
	Last12Months Preset = "last-12-months"
	Year         Preset = "year"
	MonthSelect  Preset = "month-select"
	Custom       Preset = "custom"
)

// All lists every preset in display order.
var All = []Preset{CurrentMonth, LastMonth, Last3Months, Last12Months, Year, MonthSelect, Custom}

var titles = map[Preset]string{
	CurrentMonth: "This month",
	LastMonth:    "Last month",
	Last3Months:  "Last 3 months",
	Last12Months: "Last 12 months",
	Year:         "Year",
	MonthSelect:  "Month",
	Custom:       "Custom",
}

// ParsePreset returns the preset named by s (case-insensitive, surrounding space ignored).
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPreset, s, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the preset names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, p := range All {
		names[i] = string(p)
	}
	return names
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	_, ok := titles[p]
	return ok
}

// Title returns a short human-readable name.
func (p Preset) Title() string {
	if t, ok := titles[p]; ok {
		return t
	}
	return string(p)
}

func (p Preset) String() string {
	return string(p)
}
