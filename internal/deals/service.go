package deals

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"nse-deal-tracker/internal/dedup"
	"nse-deal-tracker/internal/interfaces"
	"nse-deal-tracker/internal/intraday"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/nse"
	"nse-deal-tracker/internal/types"
)

// FetchOptions selects what Fetch returns.
type FetchOptions struct {
	DealType     types.DealType
	From         time.Time
	To           time.Time
	HideIntraday bool
}

// Result is the assembled response for a fetch: the deals after filtering,
// plus the stats computed over the full deduplicated set.
type Result struct {
	Deals    []types.DealRecord  `json:"deals"`
	Dedup    types.DedupStats    `json:"dedupStats"`
	Intraday types.IntradayStats `json:"intradayStats"`
}

// Service orchestrates the deal pipeline: fetch both feeds, deduplicate,
// classify intraday activity and attach side data. Deduplicated result sets
// and side data are memoized in-process so repeated requests for the same
// window do not hit the exchange again.
type Service struct {
	source       interfaces.DealSource
	sideData     interfaces.SideDataSource
	capsFallback interfaces.MarketCapSource
	quotes       interfaces.QuoteSource
	classifier   intraday.Classifier
	results      *gocache.Cache
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithSideDataSource sets the primary side-data source.
func WithSideDataSource(s interfaces.SideDataSource) Option {
	return func(svc *Service) { svc.sideData = s }
}

// WithMarketCapFallback sets the source used for symbols the primary
// side-data source has no market cap for.
func WithMarketCapFallback(s interfaces.MarketCapSource) Option {
	return func(svc *Service) { svc.capsFallback = s }
}

// WithQuoteSource sets the live price overlay.
func WithQuoteSource(s interfaces.QuoteSource) Option {
	return func(svc *Service) { svc.quotes = s }
}

// WithClassifier overrides the default intraday classifier.
func WithClassifier(c intraday.Classifier) Option {
	return func(svc *Service) { svc.classifier = c }
}

// NewService creates the orchestrator. resultsTTL bounds how long fetched
// windows and side data are served from memory.
func NewService(source interfaces.DealSource, resultsTTL time.Duration, opts ...Option) *Service {
	if resultsTTL <= 0 {
		resultsTTL = 5 * time.Minute
	}
	svc := &Service{
		source:     source,
		classifier: intraday.Default(),
		results:    gocache.New(resultsTTL, 2*resultsTTL),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Fetch returns the deals for the window described by opts. Intraday stats
// always describe the full deduplicated set, even when the intraday deals
// are hidden from the returned slice.
func (s *Service) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	full, stats, err := s.fetchDeduped(ctx, opts.DealType, opts.From, opts.To)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Dedup:    stats,
		Intraday: s.classifier.Stats(full),
		Deals:    s.classifier.Filter(full, opts.HideIntraday),
	}
	return result, nil
}

// fetchDeduped fetches the feeds selected by dealType and deduplicates the
// union. The result is memoized per (type, window).
func (s *Service) fetchDeduped(ctx context.Context, dealType types.DealType, from, to time.Time) ([]types.DealRecord, types.DedupStats, error) {
	key := resultKey(dealType, from, to)
	if cached, found := s.results.Get(key); found {
		res := cached.(dedup.Result)
		return res.Deals, res.Stats, nil
	}

	timer := logger.StartOperation(ctx, "fetch_deals", "dealType", string(dealType),
		"from", from.Format("2006-01-02"), "to", to.Format("2006-01-02"))

	var bulk, block []types.DealRecord
	var err error
	switch dealType {
	case types.Bulk:
		bulk, err = s.source.FetchDeals(ctx, nse.BulkDeals, from, to)
	case types.Block:
		block, err = s.source.FetchDeals(ctx, nse.BlockDeals, from, to)
	default:
		bulk, block, err = s.fetchBothFeeds(ctx, from, to)
	}
	if err != nil {
		timer.EndWithError(err)
		return nil, types.DedupStats{}, err
	}

	res := dedup.Deduplicate(bulk, block)
	s.results.Set(key, res, gocache.DefaultExpiration)

	timer.End("total", res.Stats.Total, "unique", res.Stats.Unique, "duplicates", res.Stats.Duplicates)
	return res.Deals, res.Stats, nil
}

// fetchBothFeeds pulls bulk and block deals concurrently.
func (s *Service) fetchBothFeeds(ctx context.Context, from, to time.Time) ([]types.DealRecord, []types.DealRecord, error) {
	type feedResult struct {
		feed  nse.FeedType
		deals []types.DealRecord
		err   error
	}

	results := make(chan feedResult, 2)
	for _, feed := range []nse.FeedType{nse.BulkDeals, nse.BlockDeals} {
		go func(feed nse.FeedType) {
			deals, err := s.source.FetchDeals(ctx, feed, from, to)
			results <- feedResult{feed: feed, deals: deals, err: err}
		}(feed)
	}

	var bulk, block []types.DealRecord
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			return nil, nil, fmt.Errorf("%s fetch failed: %w", r.feed, r.err)
		}
		if r.feed == nse.BulkDeals {
			bulk = r.deals
		} else {
			block = r.deals
		}
	}
	return bulk, block, nil
}

const sideDataKey = "side_data"

// SideData assembles the per-symbol lookup tables for the given deals: the
// curated sheet first, a market-cap fallback for symbols the sheet misses,
// and an optional live quote overlay. The sheet snapshot is memoized; the
// fallback and overlay run per call because they depend on the symbol set.
func (s *Service) SideData(ctx context.Context, deals []types.DealRecord) types.SideData {
	side := s.baseSideData(ctx)
	symbols := uniqueSymbols(deals)

	if s.capsFallback != nil {
		missing := make([]string, 0, len(symbols))
		for _, symbol := range symbols {
			if _, ok := side.MarketCap[symbol]; !ok {
				missing = append(missing, symbol)
			}
		}
		if len(missing) > 0 {
			for symbol, v := range s.capsFallback.FetchMarketCaps(ctx, missing) {
				side.MarketCap[symbol] = v
			}
		}
	}

	if s.quotes != nil && len(symbols) > 0 {
		prices, asks, err := s.quotes.FetchQuotes(ctx, symbols)
		if err != nil {
			logger.Warn(ctx, "Quote overlay failed", "error", err.Error())
		} else {
			for symbol, v := range prices {
				side.Price[symbol] = v
			}
			for symbol, v := range asks {
				side.AskPrice[symbol] = v
			}
		}
	}
	return side
}

func (s *Service) baseSideData(ctx context.Context) types.SideData {
	if cached, found := s.results.Get(sideDataKey); found {
		return cloneSideData(cached.(types.SideData))
	}

	side := types.NewSideData()
	if s.sideData != nil {
		fetched, err := s.sideData.FetchSideData(ctx)
		if err != nil {
			logger.Warn(ctx, "Side data fetch failed", "error", err.Error())
		} else {
			side = fetched
			s.results.Set(sideDataKey, fetched, gocache.DefaultExpiration)
		}
	}
	return cloneSideData(side)
}

// InvalidateResults drops all memoized windows and side data.
func (s *Service) InvalidateResults() {
	s.results.Flush()
}

func resultKey(dealType types.DealType, from, to time.Time) string {
	return string(dealType) + "|" + from.Format("2006-01-02") + "|" + to.Format("2006-01-02")
}

func uniqueSymbols(deals []types.DealRecord) []string {
	seen := make(map[string]bool, len(deals))
	symbols := make([]string, 0, len(deals))
	for _, d := range deals {
		if !seen[d.Symbol] {
			seen[d.Symbol] = true
			symbols = append(symbols, d.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// cloneSideData copies the lookup maps so per-request overlays never mutate
// the memoized snapshot.
func cloneSideData(side types.SideData) types.SideData {
	out := types.NewSideData()
	for k, v := range side.MarketCap {
		out.MarketCap[k] = v
	}
	for k, v := range side.Price {
		out.Price[k] = v
	}
	for k, v := range side.AskPrice {
		out.AskPrice[k] = v
	}
	return out
}

// DateRange resolves a named window ending today: 1D, 1W, 1M or 3M.
func DateRange(window string, now time.Time) (time.Time, time.Time, error) {
	to := now
	switch window {
	case "1D":
		return to, to, nil
	case "1W":
		return to.AddDate(0, 0, -7), to, nil
	case "1M":
		return to.AddDate(0, -1, 0), to, nil
	case "3M":
		return to.AddDate(0, -3, 0), to, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown date window %q", window)
	}
}
