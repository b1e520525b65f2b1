package nse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const etfPath = "/api/etf"

// FlexNumber decodes NSE numeric fields that arrive either as JSON numbers
// or as quoted strings like "245.31". Empty strings and "-" decode to zero.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == "-" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing number %q: %w", s, err)
		}
		*n = FlexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = FlexNumber(v)
	return nil
}

// RawETFRow is one entry of the /api/etf listing.
type RawETFRow struct {
	Symbol    string     `json:"symbol"`
	Assets    FlexNumber `json:"assets"`
	Open      FlexNumber `json:"open"`
	High      FlexNumber `json:"high"`
	Low       FlexNumber `json:"low"`
	NAV       FlexNumber `json:"nav"`
	Qty       FlexNumber `json:"qty"`
	LastPrice FlexNumber `json:"ltP"`
	Meta      struct {
		CompanyName string `json:"companyName"`
	} `json:"meta"`
}

type etfResponse struct {
	Data []RawETFRow `json:"data"`
}

// FetchETFs returns the full exchange-traded fund listing.
func (c *Client) FetchETFs(ctx context.Context) ([]RawETFRow, error) {
	if err := c.bootstrapSession(ctx); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, etfPath, map[string]string{
		"Accept":           jsonAccept,
		"X-Requested-With": "XMLHttpRequest",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching ETF list: %w", err)
	}

	var envelope etfResponse
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding ETF list: %w", err)
	}
	return envelope.Data, nil
}

// inavResponse is the slice of the quote-equity priceInfo payload we use.
type inavResponse struct {
	PriceInfo struct {
		INavValue FlexNumber `json:"iNavValue"`
	} `json:"priceInfo"`
}

// FetchINAV returns the indicative NAV quoted for one fund symbol. Funds
// without a published iNAV return zero.
func (c *Client) FetchINAV(ctx context.Context, symbol string) (float64, error) {
	if err := c.bootstrapSession(ctx); err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	path := fmt.Sprintf("%s?symbol=%s", quotePath, url.QueryEscape(symbol))
	resp, err := c.http.Get(ctx, path, map[string]string{
		"Accept":           jsonAccept,
		"X-Requested-With": "XMLHttpRequest",
	})
	if err != nil {
		return 0, fmt.Errorf("fetching iNAV for %s: %w", symbol, err)
	}

	var quote inavResponse
	if err := json.Unmarshal(resp.Body, &quote); err != nil {
		return 0, fmt.Errorf("decoding quote for %s: %w", symbol, err)
	}
	return float64(quote.PriceInfo.INavValue), nil
}
