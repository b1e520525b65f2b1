package interfaces

import (
	"context"
	"time"

	"nse-deal-tracker/internal/nse"
	"nse-deal-tracker/internal/types"
)

// DealSource fetches one disclosure feed for a date range.
type DealSource interface {
	FetchDeals(ctx context.Context, feed nse.FeedType, from, to time.Time) ([]types.DealRecord, error)
}

// SideDataSource provides the per-symbol lookup tables shown alongside the
// deals.
type SideDataSource interface {
	FetchSideData(ctx context.Context) (types.SideData, error)
}

// MarketCapSource fills market-cap gaps for symbols the primary side-data
// source does not cover. Failed symbols are simply absent from the result.
type MarketCapSource interface {
	FetchMarketCaps(ctx context.Context, symbols []string) map[string]float64
}

// QuoteSource overlays live last-traded and best-ask prices.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, symbols []string) (prices map[string]float64, asks map[string]float64, err error)
}
