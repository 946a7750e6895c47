package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/claimtrack/internal/calendar"
)

// Point holds one calendar day's combined claim and payment totals.
type Point struct {
	Date     calendar.Date
	Claims   decimal.Decimal
	Payments decimal.Decimal
	Label    string
}

// MarshalJSON emits the shape chart widgets expect: numeric "claims" and
// "payments" fields plus a display label.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     string  `json:"date"`
		Claims   float64 `json:"claims"`
		Payments float64 `json:"payments"`
		Label    string  `json:"label"`
	}{
		Date:     p.Date.String(),
		Claims:   p.Claims.InexactFloat64(),
		Payments: p.Payments.InexactFloat64(),
		Label:    p.Label,
	})
}

// MonthStats holds claim and payment totals for one calendar month.
type MonthStats struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Label    string          `json:"label"`
	Claims   decimal.Decimal `json:"claims"`
	Payments decimal.Decimal `json:"payments"`
	Days     int             `json:"active_days"`
}

// Outstanding is claims minus payments for the month.
func (m MonthStats) Outstanding() decimal.Decimal {
	return m.Claims.Sub(m.Payments)
}

// SummaryStats holds the top-level totals for a window.
type SummaryStats struct {
	From calendar.Date `json:"from"`
	To   calendar.Date `json:"to"`

	ClaimCount      int `json:"claim_count"`
	PaymentCount    int `json:"payment_count"`
	DroppedPayments int `json:"dropped_payments"`
	ActiveDays      int `json:"active_days"`

	ClaimsTotal   decimal.Decimal `json:"claims_total"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
	Outstanding   decimal.Decimal `json:"outstanding"`

	// PaidRatio is PaymentsTotal / ClaimsTotal, 0 when nothing was claimed.
	PaidRatio    float64         `json:"paid_ratio"`
	ClaimsPerDay decimal.Decimal `json:"claims_per_day"`
}
