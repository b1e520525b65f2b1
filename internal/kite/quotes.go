package kite

import (
	"context"
	"fmt"
	"os"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"nse-deal-tracker/internal/logger"
)

// quoteBatchSize keeps each quote call well under the API's instrument cap.
const quoteBatchSize = 250

// quoter is the slice of the Kite Connect client the provider uses.
type quoter interface {
	GetQuote(instruments ...string) (kiteconnect.Quote, error)
}

// Provider reads last-traded and best-ask prices from the Kite Connect quote
// API. It is an optional overlay on top of the sheet data and needs a valid
// API session.
type Provider struct {
	kc quoter
}

// NewFromEnv builds a provider from the KITE_API_KEY and KITE_ACCESS_TOKEN
// environment variables.
func NewFromEnv() (*Provider, error) {
	apiKey := os.Getenv("KITE_API_KEY")
	accessToken := os.Getenv("KITE_ACCESS_TOKEN")
	if apiKey == "" || accessToken == "" {
		return nil, fmt.Errorf("missing API key/access token")
	}

	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &Provider{kc: kc}, nil
}

// FetchQuotes returns last price and best ask keyed by symbol. Symbols the
// API does not know are absent from the maps.
func (p *Provider) FetchQuotes(ctx context.Context, symbols []string) (map[string]float64, map[string]float64, error) {
	prices := make(map[string]float64, len(symbols))
	asks := make(map[string]float64, len(symbols))

	for start := 0; start < len(symbols); start += quoteBatchSize {
		if err := ctx.Err(); err != nil {
			return prices, asks, err
		}

		end := start + quoteBatchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		instruments := make([]string, len(batch))
		for i, symbol := range batch {
			instruments[i] = "NSE:" + symbol
		}

		quotes, err := p.kc.GetQuote(instruments...)
		if err != nil {
			return prices, asks, fmt.Errorf("kite quote call failed: %w", err)
		}

		for i, symbol := range batch {
			q, ok := quotes[instruments[i]]
			if !ok {
				continue
			}
			if q.LastPrice > 0 {
				prices[symbol] = q.LastPrice
			}
			if len(q.Depth.Sell) > 0 && q.Depth.Sell[0].Price > 0 {
				asks[symbol] = q.Depth.Sell[0].Price
			}
		}
	}

	logger.Debug(ctx, "Kite quotes fetched", "requested", len(symbols), "prices", len(prices), "asks", len(asks))
	return prices, asks, nil
}
