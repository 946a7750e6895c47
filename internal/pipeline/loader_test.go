package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

// failingSource fails Claims and blocks Payments until ctx is cancelled.
type failingSource struct {
	err error
}

func (f *failingSource) Claims(context.Context, period.Window) ([]model.ClaimEvent, error) {
	return nil, f.err
}

func (f *failingSource) Payments(ctx context.Context, _ period.Window) ([]model.PaymentEvent, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLoad_BothStreams(t *testing.T) {
	src := &staticSource{
		claims:   []model.ClaimEvent{{PeriodStart: "2024-03-01", ClaimedAmount: "3"}},
		payments: []model.PaymentEvent{{PaymentDate: model.StringPtr("2024-03-02"), Amount: "1"}, {Amount: "9"}},
	}
	w := window(t, "2024-03-01", "2024-03-31")

	lr, err := Load(context.Background(), src, w)
	if err != nil {
		t.Fatal(err)
	}
	if lr.Window != w || len(lr.Claims) != 1 || len(lr.Payments) != 2 {
		t.Errorf("LoadResult = %+v", lr)
	}

	r, err := LoadReport(context.Background(), src, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Points) != 2 || len(r.Dropped) != 1 {
		t.Errorf("report = %+v", r)
	}
}

func TestLoad_ErrorCancelsSibling(t *testing.T) {
	boom := errors.New("boom")
	src := &failingSource{err: boom}

	_, err := Load(context.Background(), src, window(t, "2024-03-01", "2024-03-31"))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestLoadReport_PropagatesParseError(t *testing.T) {
	src := &staticSource{claims: []model.ClaimEvent{{PeriodStart: "2024-03-01", ClaimedAmount: "x"}}}
	_, err := LoadReport(context.Background(), src, window(t, "2024-03-01", "2024-03-31"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

type staticSource struct {
	claims   []model.ClaimEvent
	payments []model.PaymentEvent
}

func (s *staticSource) Claims(context.Context, period.Window) ([]model.ClaimEvent, error) {
	return s.claims, nil
}

func (s *staticSource) Payments(context.Context, period.Window) ([]model.PaymentEvent, error) {
	return s.payments, nil
}
