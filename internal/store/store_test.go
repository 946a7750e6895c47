package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "claimtrack.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func putClaims(ctx context.Context, s *Store, claims []model.ClaimEvent) error {
	return s.ReplaceFile(ctx, TrackedFile{Path: "/exports/claims.jsonl", Kind: "claims"}, claims, nil)
}

func putPayments(ctx context.Context, s *Store, payments []model.PaymentEvent) error {
	return s.ReplaceFile(ctx, TrackedFile{Path: "/exports/payments.jsonl", Kind: "payments"}, nil, payments)
}

func march2024() period.Window {
	return period.Window{From: calendar.MustParse("2024-03-01"), To: calendar.MustParse("2024-03-31")}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claimtrack.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := putClaims(ctx, s, []model.ClaimEvent{{PeriodStart: "2024-03-02", ClaimedAmount: "10"}}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.Claims != 1 {
		t.Errorf("claims after reopen = %d, want 1", c.Claims)
	}
}

func TestClaims_WindowFilter(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	err := putClaims(ctx, s, []model.ClaimEvent{
		{PeriodStart: "2024-02-29T23:00:00Z", ClaimedAmount: "1"},
		{PeriodStart: "2024-03-01", ClaimedAmount: "2"},
		{PeriodStart: "2024-03-31T08:00:00+02:00", ClaimedAmount: "3.50"},
		{PeriodStart: "2024-04-01", ClaimedAmount: "4"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Claims(ctx, march2024())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d claims, want 2: %+v", len(got), got)
	}
	if got[0].ClaimedAmount != "2" || got[1].ClaimedAmount != "3.50" {
		t.Errorf("amounts = %q, %q", got[0].ClaimedAmount, got[1].ClaimedAmount)
	}
}

func TestPayments_GoverningDateAndDateless(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	err := putPayments(ctx, s, []model.PaymentEvent{
		{PaymentDate: model.StringPtr("2024-03-05"), CreatedAt: model.StringPtr("2024-02-01"), Amount: "10"},
		{PaymentDate: model.StringPtr(""), CreatedAt: model.StringPtr("2024-03-06"), Amount: "20"},
		{CreatedAt: model.StringPtr("2024-05-01"), Amount: "30"},
		{Amount: "40"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Payments(ctx, march2024())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d payments, want 3: %+v", len(got), got)
	}
	if got[0].PaymentDate == nil || *got[0].PaymentDate != "2024-03-05" {
		t.Errorf("first payment date = %v", got[0].PaymentDate)
	}
	if got[1].PaymentDate == nil || *got[1].PaymentDate != "" {
		t.Errorf("empty payment date should round-trip as empty string, got %v", got[1].PaymentDate)
	}
	if got[2].PaymentDate != nil || got[2].CreatedAt != nil || got[2].Amount != "40" {
		t.Errorf("dateless payment = %+v", got[2])
	}
}

func TestReplaceFile_Idempotent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	f := TrackedFile{Path: "/data/claims.jsonl", Kind: "claims", MtimeNs: 1, SizeBytes: 10}

	claims := []model.ClaimEvent{
		{PeriodStart: "2024-03-01", ClaimedAmount: "1"},
		{PeriodStart: "2024-03-02", ClaimedAmount: "2"},
	}
	for i := 0; i < 2; i++ {
		if err := s.ReplaceFile(ctx, f, claims, nil); err != nil {
			t.Fatal(err)
		}
	}

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.Claims != 2 || c.Files != 1 {
		t.Errorf("counts = %+v, want 2 claims and 1 file", c)
	}

	tracked, err := s.TrackedFiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tf, ok := tracked[f.Path]
	if !ok || !tf.Unchanged(1, 10) || tf.Kind != "claims" {
		t.Errorf("tracked = %+v", tracked)
	}

	if err := s.DeleteFile(ctx, f.Path); err != nil {
		t.Fatal(err)
	}
	c, _ = s.Counts(ctx)
	if c.Claims != 0 || c.Files != 0 {
		t.Errorf("after delete counts = %+v", c)
	}
}
