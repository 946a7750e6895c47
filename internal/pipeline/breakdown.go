package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

// MonthlyTotals rolls daily points up into one row per month in months,
// in the same order. Months with no points get zero totals; points outside
// every listed month are ignored.
func MonthlyTotals(points []model.Point, months []period.MonthPair) []model.MonthStats {
	rows := make([]model.MonthStats, len(months))
	index := make(map[string]int, len(months))
	for i, m := range months {
		rows[i] = model.MonthStats{
			Year:     m.Year,
			Month:    m.Month,
			Label:    m.Label,
			Claims:   decimal.Zero,
			Payments: decimal.Zero,
		}
		index[m.Key()] = i
	}

	for _, p := range points {
		key := period.MonthPair{Year: p.Date.Year, Month: p.Date.Month}.Key()
		i, ok := index[key]
		if !ok {
			continue
		}
		row := &rows[i]
		row.Claims = row.Claims.Add(p.Claims)
		row.Payments = row.Payments.Add(p.Payments)
		row.Days++
	}

	return rows
}

// TopOutstanding returns up to n months ordered by outstanding balance,
// largest first. Ties keep calendar order.
func TopOutstanding(rows []model.MonthStats, n int) []model.MonthStats {
	sorted := make([]model.MonthStats, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Outstanding().GreaterThan(sorted[j].Outstanding())
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
