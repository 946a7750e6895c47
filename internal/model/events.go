// Package model defines the claim, payment and series types shared across claimtrack.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RawAmount is an amount as it arrived from a data source: either a JSON
// number or a JSON string. It is kept as text until pipeline.ParseAmount
// coerces it, so no precision is lost on the way in.
type RawAmount string

// UnmarshalJSON accepts numbers, strings and null.
func (a *RawAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
	default:
		*a = RawAmount(b)
	}
	return nil
}

// MarshalJSON writes numeric-looking amounts as JSON numbers and everything else as strings.
func (a RawAmount) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(a))
	if s != "" && json.Valid([]byte(s)) && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return []byte(s), nil
	}
	return json.Marshal(string(a))
}

// ClaimEvent is one claim as returned by the data-access layer.
type ClaimEvent struct {
	PeriodStart   string    `json:"period_start"`
	ClaimedAmount RawAmount `json:"claimed_amount"`
}

// DateString returns the timestamp that decides the claim's bucket.
func (c ClaimEvent) DateString() string {
	return c.PeriodStart
}

// PaymentEvent is one payment as returned by the data-access layer.
// Either date may be missing.
type PaymentEvent struct {
	PaymentDate *string   `json:"payment_date"`
	CreatedAt   *string   `json:"created_at"`
	Amount      RawAmount `json:"amount"`
}

// DateString returns PaymentDate when set, else CreatedAt. ok is false when
// neither is usable; such payments are left out of every series.
func (p PaymentEvent) DateString() (string, bool) {
	if p.PaymentDate != nil && *p.PaymentDate != "" {
		return *p.PaymentDate, true
	}
	if p.CreatedAt != nil && *p.CreatedAt != "" {
		return *p.CreatedAt, true
	}
	return "", false
}

// StringPtr is a helper for building PaymentEvent literals.
func StringPtr(s string) *string {
	return &s
}
