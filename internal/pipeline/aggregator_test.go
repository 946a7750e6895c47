package pipeline

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func window(t *testing.T, from, to string) period.Window {
	t.Helper()
	return period.Window{From: calendar.MustParse(from), To: calendar.MustParse(to)}
}

func assertPoint(t *testing.T, p model.Point, date, claims, payments string) {
	t.Helper()
	if p.Date.String() != date {
		t.Errorf("date = %s, want %s", p.Date, date)
	}
	if !p.Claims.Equal(dec(claims)) {
		t.Errorf("%s claims = %s, want %s", date, p.Claims, claims)
	}
	if !p.Payments.Equal(dec(payments)) {
		t.Errorf("%s payments = %s, want %s", date, p.Payments, payments)
	}
}

func TestAggregate_Empty(t *testing.T) {
	points, err := Aggregate(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if points == nil || len(points) != 0 {
		t.Fatalf("Aggregate(nil, nil) = %v, want empty slice", points)
	}

	b, _ := json.Marshal(points)
	if string(b) != "[]" {
		t.Errorf("empty series encodes as %s, want []", b)
	}
}

func TestAggregate_SameDayClaimAndPayment(t *testing.T) {
	points, err := Aggregate(
		[]model.ClaimEvent{{PeriodStart: "2024-01-05T00:00:00Z", ClaimedAmount: "100"}},
		[]model.PaymentEvent{{PaymentDate: model.StringPtr("2024-01-05"), Amount: "40"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	assertPoint(t, points[0], "2024-01-05", "100", "40")
	if points[0].Label != "Jan 05" {
		t.Errorf("label = %q, want Jan 05", points[0].Label)
	}
}

func TestAggregate_SortedAscending(t *testing.T) {
	claims := []model.ClaimEvent{
		{PeriodStart: "2024-03-01", ClaimedAmount: "1"},
		{PeriodStart: "2023-12-31T23:59:59Z", ClaimedAmount: "2"},
		{PeriodStart: "2024-01-15", ClaimedAmount: "3"},
	}
	payments := []model.PaymentEvent{
		{PaymentDate: model.StringPtr("2024-02-10"), Amount: "4"},
		{PaymentDate: model.StringPtr("2023-11-01"), Amount: "5"},
	}

	points, err := Aggregate(claims, payments)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2023-11-01", "2023-12-31", "2024-01-15", "2024-02-10", "2024-03-01"}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if p.Date.String() != want[i] {
			t.Errorf("points[%d] = %s, want %s", i, p.Date, want[i])
		}
	}
}

func TestAggregate_PaymentFallsBackToCreatedAt(t *testing.T) {
	points, err := Aggregate(nil, []model.PaymentEvent{
		{PaymentDate: nil, CreatedAt: model.StringPtr("2024-02-11T10:00:00Z"), Amount: "7"},
		{PaymentDate: model.StringPtr(""), CreatedAt: model.StringPtr("2024-02-11"), Amount: "3"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	assertPoint(t, points[0], "2024-02-11", "0", "10")
}

func TestAggregate_DatelessPaymentDropped(t *testing.T) {
	r, err := AggregateReport(
		[]model.ClaimEvent{{PeriodStart: "2024-02-01", ClaimedAmount: "5"}},
		[]model.PaymentEvent{
			{Amount: "99"},
			{PaymentDate: model.StringPtr("2024-02-01"), Amount: "1"},
			{PaymentDate: model.StringPtr(""), CreatedAt: model.StringPtr(""), Amount: "98"},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(r.Points))
	}
	assertPoint(t, r.Points[0], "2024-02-01", "5", "1")
	if len(r.Dropped) != 2 || r.Dropped[0] != 0 || r.Dropped[1] != 2 {
		t.Errorf("Dropped = %v, want [0 2]", r.Dropped)
	}
	if r.Claims != 1 || r.Payments != 1 {
		t.Errorf("counts = %d claims, %d payments", r.Claims, r.Payments)
	}
}

func TestAggregate_SumsWithoutFloatDrift(t *testing.T) {
	var claims []model.ClaimEvent
	for i := 0; i < 10; i++ {
		claims = append(claims, model.ClaimEvent{PeriodStart: "2024-01-01", ClaimedAmount: "0.1"})
	}
	points, err := Aggregate(claims, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertPoint(t, points[0], "2024-01-01", "1", "0")
}

func TestAggregate_NoTimezoneShift(t *testing.T) {
	points, err := Aggregate([]model.ClaimEvent{
		{PeriodStart: "2024-01-05T23:30:00-08:00", ClaimedAmount: "1"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if points[0].Date.String() != "2024-01-05" {
		t.Errorf("bucket = %s, want the literal date prefix 2024-01-05", points[0].Date)
	}
}

func TestAggregate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		claims   []model.ClaimEvent
		payments []model.PaymentEvent
		stream   string
		index    int
		field    string
	}{
		{
			name:   "claim amount",
			claims: []model.ClaimEvent{{PeriodStart: "2024-01-01", ClaimedAmount: "1"}, {PeriodStart: "2024-01-02", ClaimedAmount: "abc"}},
			stream: StreamClaims, index: 1, field: "claimed_amount",
		},
		{
			name:   "claim empty amount",
			claims: []model.ClaimEvent{{PeriodStart: "2024-01-01", ClaimedAmount: ""}},
			stream: StreamClaims, index: 0, field: "claimed_amount",
		},
		{
			name:   "claim date",
			claims: []model.ClaimEvent{{PeriodStart: "01/05/2024", ClaimedAmount: "1"}},
			stream: StreamClaims, index: 0, field: "period_start",
		},
		{
			name:     "payment date",
			payments: []model.PaymentEvent{{PaymentDate: model.StringPtr("2024-13-01"), Amount: "1"}},
			stream:   StreamPayments, index: 0, field: "payment_date",
		},
		{
			name:     "payment created_at",
			payments: []model.PaymentEvent{{CreatedAt: model.StringPtr("yesterday"), Amount: "1"}},
			stream:   StreamPayments, index: 0, field: "created_at",
		},
		{
			name:     "payment amount",
			payments: []model.PaymentEvent{{PaymentDate: model.StringPtr("2024-01-01"), Amount: "NaN"}},
			stream:   StreamPayments, index: 0, field: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.claims, tt.payments)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Stream != tt.stream || pe.Index != tt.index || pe.Field != tt.field {
				t.Errorf("ParseError = %+v, want %s[%d].%s", pe, tt.stream, tt.index, tt.field)
			}
		})
	}
}

func TestPoint_JSONShape(t *testing.T) {
	points, err := Aggregate(
		[]model.ClaimEvent{{PeriodStart: "2024-01-05", ClaimedAmount: "100"}},
		[]model.PaymentEvent{{PaymentDate: model.StringPtr("2024-01-05"), Amount: "40.5"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(points)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"date":"2024-01-05","claims":100,"payments":40.5,"label":"Jan 05"}]`
	if string(b) != want {
		t.Errorf("json = %s\nwant  %s", b, want)
	}
}

func TestFilterWindow(t *testing.T) {
	points, _ := Aggregate([]model.ClaimEvent{
		{PeriodStart: "2024-01-31", ClaimedAmount: "1"},
		{PeriodStart: "2024-02-01", ClaimedAmount: "2"},
		{PeriodStart: "2024-02-29", ClaimedAmount: "3"},
		{PeriodStart: "2024-03-01", ClaimedAmount: "4"},
	}, nil)

	got := FilterWindow(points, window(t, "2024-02-01", "2024-02-29"))
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	assertPoint(t, got[0], "2024-02-01", "2", "0")
	assertPoint(t, got[1], "2024-02-29", "3", "0")
}

func TestFilterWindow_EmptyIsNotNil(t *testing.T) {
	points, _ := Aggregate([]model.ClaimEvent{{PeriodStart: "2024-01-31", ClaimedAmount: "1"}}, nil)

	got := FilterWindow(points, window(t, "2024-02-01", "2024-02-29"))
	if got == nil {
		t.Fatal("FilterWindow returned nil")
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]" {
		t.Errorf("json = %s, want []", b)
	}
}

func TestFillGaps(t *testing.T) {
	points, _ := Aggregate(
		[]model.ClaimEvent{{PeriodStart: "2024-02-28", ClaimedAmount: "5"}, {PeriodStart: "2024-03-05", ClaimedAmount: "9"}},
		[]model.PaymentEvent{{PaymentDate: model.StringPtr("2024-03-01"), Amount: "2"}},
	)

	got := FillGaps(points, window(t, "2024-02-28", "2024-03-02"))
	want := []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Date.String() != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i].Date, want[i])
		}
	}
	assertPoint(t, got[0], "2024-02-28", "5", "0")
	assertPoint(t, got[1], "2024-02-29", "0", "0")
	assertPoint(t, got[2], "2024-03-01", "0", "2")
	if got[1].Label != "Feb 29" {
		t.Errorf("filled label = %q", got[1].Label)
	}
}

func TestSummarize(t *testing.T) {
	r, err := AggregateReport(
		[]model.ClaimEvent{
			{PeriodStart: "2024-03-01", ClaimedAmount: "100"},
			{PeriodStart: "2024-03-10", ClaimedAmount: "50.25"},
			{PeriodStart: "2024-04-01", ClaimedAmount: "1000"},
		},
		[]model.PaymentEvent{
			{PaymentDate: model.StringPtr("2024-03-10"), Amount: "75"},
			{Amount: "3"},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	s := Summarize(r, window(t, "2024-03-01", "2024-03-31"))
	if !s.ClaimsTotal.Equal(dec("150.25")) {
		t.Errorf("ClaimsTotal = %s", s.ClaimsTotal)
	}
	if !s.PaymentsTotal.Equal(dec("75")) {
		t.Errorf("PaymentsTotal = %s", s.PaymentsTotal)
	}
	if !s.Outstanding.Equal(dec("75.25")) {
		t.Errorf("Outstanding = %s", s.Outstanding)
	}
	if s.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", s.ActiveDays)
	}
	if s.DroppedPayments != 1 {
		t.Errorf("DroppedPayments = %d, want 1", s.DroppedPayments)
	}
	if !s.ClaimsPerDay.Equal(dec("4.85")) {
		t.Errorf("ClaimsPerDay = %s, want 4.85", s.ClaimsPerDay)
	}
	if s.PaidRatio < 0.49 || s.PaidRatio > 0.5 {
		t.Errorf("PaidRatio = %f", s.PaidRatio)
	}
}

func TestSummarize_NoClaims(t *testing.T) {
	s := Summarize(Report{}, window(t, "2024-03-01", "2024-03-31"))
	if !s.ClaimsTotal.IsZero() || !s.Outstanding.IsZero() || s.PaidRatio != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}
