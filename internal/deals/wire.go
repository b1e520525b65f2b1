package deals

import (
	"context"
	"time"

	"nse-deal-tracker/internal/cache"
	"nse-deal-tracker/internal/intraday"
	"nse-deal-tracker/internal/kite"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/nse"
	"nse-deal-tracker/internal/screener"
	"nse-deal-tracker/internal/sheets"
	"nse-deal-tracker/internal/store"
)

// NewFromConfig wires the service and its collaborators from the loaded
// configuration, returning the NSE client too so other services can share
// its session and rate limiter. Optional sources that fail to initialize
// are skipped with a warning rather than aborting startup.
func NewFromConfig(cfg *store.Config) (*Service, *nse.Client) {
	ctx := context.Background()

	feedCache := cache.New(cfg.NSE.CacheDir, time.Duration(cfg.NSE.CacheTTLMinutes)*time.Minute)
	nseClient := nse.NewClient(nse.Config{
		BaseURL:           cfg.NSE.BaseURL,
		Timeout:           time.Duration(cfg.NSE.TimeoutSec) * time.Second,
		RequestsPerSec:    cfg.NSE.RequestsPerSec,
		Retries:           cfg.NSE.Retries,
		RetryDelay:        time.Duration(cfg.NSE.RetryDelayMs) * time.Millisecond,
		WarmupQuoteSymbol: cfg.NSE.WarmupQuoteSymbol,
		Cache:             feedCache,
	})

	opts := []Option{
		WithClassifier(intraday.New(cfg.Intraday.MinBufferShares, cfg.Intraday.VolumeFraction)),
	}

	if cfg.Sheets.SheetID != "" {
		opts = append(opts, WithSideDataSource(sheets.New(sheets.Config{
			SheetID: cfg.Sheets.SheetID,
			GID:     cfg.Sheets.GID,
		})))
	}
	if cfg.Screener.Enabled {
		opts = append(opts, WithMarketCapFallback(screener.New(cfg.Screener.BaseURL)))
	}
	if cfg.Kite.Enabled {
		if quotes, err := kite.NewFromEnv(); err != nil {
			logger.Warn(ctx, "Kite quote overlay disabled", "error", err.Error())
		} else {
			opts = append(opts, WithQuoteSource(quotes))
		}
	}

	ttl := time.Duration(cfg.ResultsTTLMinutes) * time.Minute
	return NewService(nseClient, ttl, opts...), nseClient
}
