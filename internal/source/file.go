package source

import (
	"context"
	"fmt"

	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

// FileSource reads events straight from export files. Either path may be
// empty, in which case that stream is empty. Files are re-read on every call.
type FileSource struct {
	ClaimsPath   string
	PaymentsPath string
}

// Claims returns the claims in ClaimsPath whose period start falls inside w.
// Malformed lines are an error here; use ParseFile to skip them.
func (s FileSource) Claims(ctx context.Context, w period.Window) ([]model.ClaimEvent, error) {
	if s.ClaimsPath == "" {
		return []model.ClaimEvent{}, nil
	}
	r, err := parseStrict(ctx, DiscoveredFile{Path: s.ClaimsPath, Kind: KindClaims})
	if err != nil {
		return nil, err
	}

	claims := make([]model.ClaimEvent, 0, len(r.Claims))
	for _, c := range r.Claims {
		if InWindow(c.PeriodStart, w) {
			claims = append(claims, c)
		}
	}
	return claims, nil
}

// Payments returns the payments in PaymentsPath whose governing date falls
// inside w, plus every payment with no date.
func (s FileSource) Payments(ctx context.Context, w period.Window) ([]model.PaymentEvent, error) {
	if s.PaymentsPath == "" {
		return []model.PaymentEvent{}, nil
	}
	r, err := parseStrict(ctx, DiscoveredFile{Path: s.PaymentsPath, Kind: KindPayments})
	if err != nil {
		return nil, err
	}

	payments := make([]model.PaymentEvent, 0, len(r.Payments))
	for _, p := range r.Payments {
		ds, ok := p.DateString()
		if !ok || InWindow(ds, w) {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func parseStrict(ctx context.Context, df DiscoveredFile) (ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return ParseResult{}, err
	}
	if f, ok := FormatFor(df.Path); ok {
		df.Format = f
	}
	r := ParseFile(df)
	if r.Err != nil {
		return r, r.Err
	}
	if r.ParseErrors > 0 {
		return r, fmt.Errorf("%s: %d malformed lines", df.Path, r.ParseErrors)
	}
	return r, nil
}

// InWindow compares the ISO date prefix of ts against w as text, the same
// filter the SQLite store applies. Timestamps too short to hold a date are
// outside every window.
func InWindow(ts string, w period.Window) bool {
	if len(ts) < 10 {
		return false
	}
	day := ts[:10]
	return day >= w.From.String() && day <= w.To.String()
}
