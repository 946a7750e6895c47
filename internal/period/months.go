package period

import (
	"fmt"

	"github.com/theirongolddev/claimtrack/internal/calendar"
)

// MonthPair is one (year, month) unit within a window.
type MonthPair struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

// Key formats the pair as yyyy-mm.
func (m MonthPair) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Months walks from from's month to to's month inclusive. The result is empty
// when from's month is after to's; that is not an error.
func Months(from, to calendar.Date) []MonthPair {
	first, last := from.MonthIndex(), to.MonthIndex()
	if first > last {
		return []MonthPair{}
	}

	out := make([]MonthPair, 0, last-first+1)
	y, m := from.Year, from.Month
	for i := first; i <= last; i++ {
		out = append(out, MonthPair{Year: y, Month: m, Label: calendar.MonthAbbrev(m)})
		m++
		if m == 13 {
			m = 1
			y++
		}
	}
	return out
}
