// Package etf screens the exchange-traded fund listing for funds trading
// below their indicative NAV.
package etf

import (
	"context"
	"math"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/nse"
)

// Funds trading fewer shares than this in a day are too thin to act on and
// their quotes too stale to trust.
const minDayQty = 100_000

// Source supplies the fund listing and per-fund indicative NAVs.
type Source interface {
	FetchETFs(ctx context.Context) ([]nse.RawETFRow, error)
	FetchINAV(ctx context.Context, symbol string) (float64, error)
}

// Quote is one screened fund with its discount to indicative NAV.
type Quote struct {
	Symbol         string  `json:"symbol"`
	CompanyName    string  `json:"companyName"`
	Assets         float64 `json:"assets"`
	LastPrice      float64 `json:"ltP"`
	NAV            float64 `json:"nav"`
	INAV           float64 `json:"inav"`
	Qty            float64 `json:"qty"`
	Open           float64 `json:"open"`
	High           float64 `json:"high"`
	Low            float64 `json:"low"`
	UndervaluedPct float64 `json:"undervaluedPct"`
	Undervalued    bool    `json:"undervalued"`
}

const resultsKey = "etf_screen"

// Service runs the screen and memoizes the result, since it costs one quote
// request per listed fund.
type Service struct {
	source  Source
	results *gocache.Cache
}

// NewService creates the screening service with the given result TTL.
func NewService(source Source, resultsTTL time.Duration) *Service {
	if resultsTTL <= 0 {
		resultsTTL = 5 * time.Minute
	}
	return &Service{
		source:  source,
		results: gocache.New(resultsTTL, 2*resultsTTL),
	}
}

// Screen returns the liquid funds ranked by discount to indicative NAV,
// widest discount first. Funds without a published iNAV are skipped.
func (s *Service) Screen(ctx context.Context) ([]Quote, error) {
	if cached, ok := s.results.Get(resultsKey); ok {
		return cached.([]Quote), nil
	}

	timer := logger.StartOperation(ctx, "etf.screen")
	rows, err := s.source.FetchETFs(ctx)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	quotes := make([]Quote, 0, len(rows))
	for _, row := range rows {
		if row.NAV <= 0 || row.LastPrice <= 0 || row.Qty <= minDayQty {
			continue
		}
		inav, err := s.source.FetchINAV(ctx, row.Symbol)
		if err != nil {
			logger.Warn(ctx, "iNAV lookup failed", "symbol", row.Symbol, "error", err)
			continue
		}
		if inav <= 0 {
			continue
		}

		pct := round2((inav - float64(row.LastPrice)) / inav * 100)
		quotes = append(quotes, Quote{
			Symbol:         row.Symbol,
			CompanyName:    row.Meta.CompanyName,
			Assets:         float64(row.Assets),
			LastPrice:      float64(row.LastPrice),
			NAV:            float64(row.NAV),
			INAV:           inav,
			Qty:            float64(row.Qty),
			Open:           float64(row.Open),
			High:           float64(row.High),
			Low:            float64(row.Low),
			UndervaluedPct: pct,
			Undervalued:    pct > 0,
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].UndervaluedPct > quotes[j].UndervaluedPct
	})

	s.results.Set(resultsKey, quotes, gocache.DefaultExpiration)
	timer.End("funds", len(quotes))
	return quotes, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
