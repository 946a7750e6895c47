package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

// Source is the data-access boundary. Implementations return the events whose
// governing date falls inside w; payments with no usable date are returned
// too so the aggregator can account for them.
type Source interface {
	Claims(ctx context.Context, w period.Window) ([]model.ClaimEvent, error)
	Payments(ctx context.Context, w period.Window) ([]model.PaymentEvent, error)
}

// LoadResult holds the raw events fetched for one window.
type LoadResult struct {
	Window   period.Window
	Claims   []model.ClaimEvent
	Payments []model.PaymentEvent
}

// Load fetches both streams for w concurrently. The first error cancels the
// other fetch.
func Load(ctx context.Context, src Source, w period.Window) (*LoadResult, error) {
	result := &LoadResult{Window: w}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		claims, err := src.Claims(gctx, w)
		if err != nil {
			return fmt.Errorf("loading claims: %w", err)
		}
		result.Claims = claims
		return nil
	})
	g.Go(func() error {
		payments, err := src.Payments(gctx, w)
		if err != nil {
			return fmt.Errorf("loading payments: %w", err)
		}
		result.Payments = payments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadReport loads w from src and aggregates it.
func LoadReport(ctx context.Context, src Source, w period.Window) (Report, error) {
	lr, err := Load(ctx, src, w)
	if err != nil {
		return Report{}, err
	}
	return AggregateReport(lr.Claims, lr.Payments)
}
