package screener

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"nse-deal-tracker/internal/logger"
)

const defaultBaseURL = "https://www.screener.in"

// Scraper pulls market capitalisation from Screener.in company pages. It is
// the fallback when the curated sheet has no entry for a symbol.
type Scraper struct {
	baseURL   string
	userAgent string
	delay     time.Duration
}

// New creates a scraper against baseURL, or the public Screener.in site when
// baseURL is empty.
func New(baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Scraper{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		delay:     1 * time.Second,
	}
}

// FetchMarketCap scrapes the company page for symbol and returns the market
// cap in crores. The value sits in the top ratios list as a labelled number.
func (s *Scraper) FetchMarketCap(ctx context.Context, symbol string) (float64, error) {
	var (
		marketCap float64
		found     bool
	)

	c := colly.NewCollector(colly.UserAgent(s.userAgent))
	c.SetRequestTimeout(20 * time.Second)

	c.OnHTML("li", func(e *colly.HTMLElement) {
		if found {
			return
		}
		label := e.DOM.Find("span.name").First()
		if !strings.Contains(strings.ToLower(label.Text()), "market cap") {
			return
		}
		if v, err := parseRatioNumber(e.DOM); err == nil {
			marketCap = v
			found = true
		}
	})

	url := fmt.Sprintf("%s/company/%s/", s.baseURL, strings.ToUpper(symbol))
	if err := c.Visit(url); err != nil {
		return 0, fmt.Errorf("failed to fetch screener page for %s: %w", symbol, err)
	}
	c.Wait()

	if !found {
		return 0, fmt.Errorf("market cap not found on screener page for %s", symbol)
	}
	return marketCap, nil
}

// FetchMarketCaps scrapes market caps for the given symbols, skipping the
// ones that fail and pausing between requests.
func (s *Scraper) FetchMarketCaps(ctx context.Context, symbols []string) map[string]float64 {
	result := make(map[string]float64, len(symbols))
	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			logger.Warn(ctx, "Screener scrape cancelled", "done", i, "total", len(symbols))
			return result
		}
		value, err := s.FetchMarketCap(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "Screener market cap lookup failed", "symbol", symbol, "error", err.Error())
			continue
		}
		result[symbol] = value

		if i < len(symbols)-1 {
			time.Sleep(s.delay)
		}
	}
	return result
}

// parseRatioNumber reads the numeric value of a top-ratios entry. Values
// carry grouping commas and may be split across nested spans.
func parseRatioNumber(li *goquery.Selection) (float64, error) {
	raw := li.Find("span.number").First().Text()
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0, fmt.Errorf("empty ratio value")
	}
	return strconv.ParseFloat(raw, 64)
}
