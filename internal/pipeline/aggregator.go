// Package pipeline loads claim and payment events and aggregates them into
// per-day series, monthly totals and window summaries.
package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

// Report is the result of aggregating one batch of events.
type Report struct {
	Points   []model.Point
	Claims   int // claim events aggregated
	Payments int // payment events aggregated

	// Dropped holds the stream indexes of payments with neither a payment
	// date nor a creation date.
	Dropped []int
}

// Aggregate merges claims and payments into one series with a point per
// distinct calendar date, sorted ascending. Dateless payments are skipped.
func Aggregate(claims []model.ClaimEvent, payments []model.PaymentEvent) ([]model.Point, error) {
	r, err := AggregateReport(claims, payments)
	if err != nil {
		return nil, err
	}
	return r.Points, nil
}

// AggregateReport is Aggregate plus the bookkeeping callers need to warn
// about skipped payments.
func AggregateReport(claims []model.ClaimEvent, payments []model.PaymentEvent) (Report, error) {
	dayMap := make(map[calendar.Date]*model.Point)
	bucket := func(d calendar.Date) *model.Point {
		p, ok := dayMap[d]
		if !ok {
			p = &model.Point{Date: d, Claims: decimal.Zero, Payments: decimal.Zero, Label: d.Label()}
			dayMap[d] = p
		}
		return p
	}

	var r Report

	for i, c := range claims {
		day, err := calendar.Parse(c.DateString())
		if err != nil {
			return Report{}, &ParseError{Stream: StreamClaims, Index: i, Field: "period_start", Value: c.PeriodStart, Err: err}
		}
		amt, err := ParseAmount(c.ClaimedAmount)
		if err != nil {
			return Report{}, &ParseError{Stream: StreamClaims, Index: i, Field: "claimed_amount", Value: string(c.ClaimedAmount), Err: err}
		}
		p := bucket(day)
		p.Claims = p.Claims.Add(amt)
		r.Claims++
	}

	for i, pay := range payments {
		ds, ok := pay.DateString()
		if !ok {
			r.Dropped = append(r.Dropped, i)
			continue
		}
		day, err := calendar.Parse(ds)
		if err != nil {
			return Report{}, &ParseError{Stream: StreamPayments, Index: i, Field: paymentDateField(pay), Value: ds, Err: err}
		}
		amt, err := ParseAmount(pay.Amount)
		if err != nil {
			return Report{}, &ParseError{Stream: StreamPayments, Index: i, Field: "amount", Value: string(pay.Amount), Err: err}
		}
		p := bucket(day)
		p.Payments = p.Payments.Add(amt)
		r.Payments++
	}

	r.Points = make([]model.Point, 0, len(dayMap))
	for _, p := range dayMap {
		r.Points = append(r.Points, *p)
	}
	sort.Slice(r.Points, func(i, j int) bool {
		return r.Points[i].Date.Before(r.Points[j].Date)
	})

	return r, nil
}

func paymentDateField(p model.PaymentEvent) string {
	if p.PaymentDate != nil && *p.PaymentDate != "" {
		return "payment_date"
	}
	return "created_at"
}

// FilterWindow returns the points whose date falls inside w. The result is
// never nil.
func FilterWindow(points []model.Point, w period.Window) []model.Point {
	result := make([]model.Point, 0, len(points))
	for _, p := range points {
		if w.Contains(p.Date) {
			result = append(result, p)
		}
	}
	return result
}

// FillGaps returns one point for every day of w, ascending, with zero totals
// for days that had no activity. Points outside w are ignored.
func FillGaps(points []model.Point, w period.Window) []model.Point {
	byDay := make(map[calendar.Date]model.Point, len(points))
	for _, p := range points {
		if w.Contains(p.Date) {
			byDay[p.Date] = p
		}
	}

	out := make([]model.Point, 0, w.Days())
	for day := w.From; !day.After(w.To); day = day.AddDays(1) {
		if p, ok := byDay[day]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, model.Point{Date: day, Claims: decimal.Zero, Payments: decimal.Zero, Label: day.Label()})
	}
	return out
}

// Summarize computes window totals from a report. Only points inside w count
// toward the totals; event counts come from the report as-is.
func Summarize(r Report, w period.Window) model.SummaryStats {
	stats := model.SummaryStats{
		From:            w.From,
		To:              w.To,
		ClaimCount:      r.Claims,
		PaymentCount:    r.Payments,
		DroppedPayments: len(r.Dropped),
		ClaimsTotal:     decimal.Zero,
		PaymentsTotal:   decimal.Zero,
	}

	for _, p := range FilterWindow(r.Points, w) {
		stats.ClaimsTotal = stats.ClaimsTotal.Add(p.Claims)
		stats.PaymentsTotal = stats.PaymentsTotal.Add(p.Payments)
		if !p.Claims.IsZero() || !p.Payments.IsZero() {
			stats.ActiveDays++
		}
	}

	stats.Outstanding = stats.ClaimsTotal.Sub(stats.PaymentsTotal)
	if !stats.ClaimsTotal.IsZero() {
		stats.PaidRatio = stats.PaymentsTotal.Div(stats.ClaimsTotal).InexactFloat64()
	}
	if days := w.Days(); days > 0 {
		stats.ClaimsPerDay = stats.ClaimsTotal.Div(decimal.NewFromInt(int64(days))).Round(2)
	}

	return stats
}
