package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"nse-deal-tracker/internal/api"
	"nse-deal-tracker/internal/cache"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/types"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	htmlAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	jsonAccept = "application/json, text/plain, */*"

	dealsPath = "/api/historicalOR/bulk-block-short-deals"
	quotePath = "/api/quote-equity"

	// NSE feed wants DD-MM-YYYY dates.
	apiDateLayout = "02-01-2006"

	sessionTTL = 5 * time.Minute
)

// Config holds NSE client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSec    float64
	Retries           int
	RetryDelay        time.Duration
	WarmupQuoteSymbol string
	Cache             *cache.Cache
}

// Client fetches bulk/block deal disclosures from the NSE website. The site
// refuses API calls without the session cookies its homepage sets, so every
// fetch runs behind a cookie bootstrap.
type Client struct {
	cfg     Config
	http    *api.Client
	limiter *RateLimiter

	mu          sync.Mutex
	sessionTime time.Time
}

// NewClient creates an NSE client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.nseindia.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 750 * time.Millisecond
	}
	if cfg.WarmupQuoteSymbol == "" {
		cfg.WarmupQuoteSymbol = "NIFTYBEES"
	}

	httpClient := api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.Timeout),
		api.WithCookieJar(),
		api.WithHeader("User-Agent", userAgent),
		api.WithHeader("Accept-Language", "en-US,en;q=0.9"),
		api.WithHeader("Referer", cfg.BaseURL+"/"),
		api.WithLogging(true),
	)

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: NewRateLimiter(3, cfg.RequestsPerSec),
	}
}

// bootstrapSession primes the cookie jar: the homepage sets the base session
// cookies and a quote page adds the ones the historical API checks. The
// warm-up page is best effort.
func (c *Client) bootstrapSession(ctx context.Context) error {
	c.mu.Lock()
	fresh := time.Since(c.sessionTime) < sessionTTL
	c.mu.Unlock()
	if fresh {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := c.http.Get(ctx, "/", map[string]string{"Accept": htmlAccept}); err != nil {
		return fmt.Errorf("cookie bootstrap failed: %w", err)
	}

	warmup := "/get-quotes/equity?symbol=" + url.QueryEscape(c.cfg.WarmupQuoteSymbol)
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := c.http.Get(ctx, warmup, map[string]string{"Accept": htmlAccept}); err != nil {
		logger.Warn(ctx, "Quote page warm-up failed", "error", err)
	}

	c.mu.Lock()
	c.sessionTime = time.Now()
	c.mu.Unlock()
	return nil
}

// invalidateSession forces the next request to re-bootstrap.
func (c *Client) invalidateSession() {
	c.mu.Lock()
	c.sessionTime = time.Time{}
	c.mu.Unlock()
}

// FetchDeals fetches one disclosure feed for the inclusive date range and
// maps it into canonical deal records tagged with the feed's type. Rows that
// fail validation are dropped and logged, never silently aggregated.
func (c *Client) FetchDeals(ctx context.Context, feed FeedType, from, to time.Time) ([]types.DealRecord, error) {
	timer := logger.StartOperation(ctx, "nse.fetch_deals", "feed", string(feed))
	rows, err := c.fetchRows(ctx, feed, from, to)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	deals := make([]types.DealRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		rec, err := row.ToDealRecord(feed.DealType())
		if err != nil {
			dropped++
			logger.Warn(ctx, "Dropping malformed feed row", "error", err)
			continue
		}
		deals = append(deals, rec)
	}

	logger.Feed(ctx, string(feed), from.Format(apiDateLayout), to.Format(apiDateLayout),
		len(deals), "dropped", dropped)
	timer.End("rows", len(deals))
	return deals, nil
}

func (c *Client) fetchRows(ctx context.Context, feed FeedType, from, to time.Time) ([]RawDealRow, error) {
	path := fmt.Sprintf("%s?optionType=%s&from=%s&to=%s",
		dealsPath, feed, from.Format(apiDateLayout), to.Format(apiDateLayout))

	fetch := func() ([]byte, error) {
		var lastErr error
		for attempt := 0; attempt < c.cfg.Retries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(c.cfg.RetryDelay * time.Duration(attempt)):
				}
				c.invalidateSession()
			}
			if err := c.bootstrapSession(ctx); err != nil {
				lastErr = err
				continue
			}
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			resp, err := c.http.Get(ctx, path, map[string]string{
				"Accept":           jsonAccept,
				"X-Requested-With": "XMLHttpRequest",
			})
			if err != nil {
				lastErr = err
				continue
			}
			return resp.Body, nil
		}
		return nil, fmt.Errorf("fetching %s after %d attempts: %w", feed, c.cfg.Retries, lastErr)
	}

	var body []byte
	var err error
	if c.cfg.Cache != nil {
		key := cache.Key(string(feed), from.Format(apiDateLayout), to.Format(apiDateLayout))
		body, err = c.cfg.Cache.GetOrFetch(key, fetch)
	} else {
		body, err = fetch()
	}
	if err != nil {
		return nil, err
	}

	var envelope feedResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		// The endpoint occasionally serves the CSV download instead of JSON.
		if rows, csvErr := ParseCSV(body); csvErr == nil && len(rows) > 0 {
			return rows, nil
		}
		return nil, fmt.Errorf("decoding %s response: %w", feed, err)
	}
	return envelope.Data, nil
}

// quoteResponse is the slice of the quote-equity trade_info payload we use.
type quoteResponse struct {
	MarketDeptOrderBook struct {
		TradeInfo struct {
			TotalMarketCap float64 `json:"totalMarketCap"`
		} `json:"tradeInfo"`
	} `json:"marketDeptOrderBook"`
}

// FetchMarketCap returns the total market cap (in crores) for one symbol.
func (c *Client) FetchMarketCap(ctx context.Context, symbol string) (float64, error) {
	if err := c.bootstrapSession(ctx); err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	path := fmt.Sprintf("%s?symbol=%s&section=trade_info", quotePath, url.QueryEscape(symbol))
	resp, err := c.http.Get(ctx, path, map[string]string{
		"Accept":           jsonAccept,
		"X-Requested-With": "XMLHttpRequest",
	})
	if err != nil {
		return 0, fmt.Errorf("fetching market cap for %s: %w", symbol, err)
	}

	var quote quoteResponse
	if err := json.Unmarshal(resp.Body, &quote); err != nil {
		return 0, fmt.Errorf("decoding quote for %s: %w", symbol, err)
	}
	return quote.MarketDeptOrderBook.TradeInfo.TotalMarketCap, nil
}

// FetchMarketCaps looks up market caps for each symbol, mapping failures to
// 0 so one bad symbol never sinks the whole side table.
func (c *Client) FetchMarketCaps(ctx context.Context, symbols []string) map[string]float64 {
	caps := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		mcap, err := c.FetchMarketCap(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "Market cap lookup failed", "symbol", symbol, "error", err)
			continue
		}
		caps[symbol] = mcap
	}
	return caps
}
