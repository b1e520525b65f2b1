package etf

import (
	"context"
	"errors"
	"testing"
	"time"

	"nse-deal-tracker/internal/nse"
)

type fakeSource struct {
	rows  []nse.RawETFRow
	inavs map[string]float64

	listCalls int
	inavCalls int
}

func (f *fakeSource) FetchETFs(ctx context.Context) ([]nse.RawETFRow, error) {
	f.listCalls++
	return f.rows, nil
}

func (f *fakeSource) FetchINAV(ctx context.Context, symbol string) (float64, error) {
	f.inavCalls++
	inav, ok := f.inavs[symbol]
	if !ok {
		return 0, errors.New("no quote")
	}
	return inav, nil
}

func fundRow(symbol string, nav, ltp, qty float64) nse.RawETFRow {
	row := nse.RawETFRow{
		Symbol:    symbol,
		NAV:       nse.FlexNumber(nav),
		LastPrice: nse.FlexNumber(ltp),
		Qty:       nse.FlexNumber(qty),
	}
	row.Meta.CompanyName = symbol + " Fund"
	return row
}

func TestScreenRanksByDiscount(t *testing.T) {
	src := &fakeSource{
		rows: []nse.RawETFRow{
			fundRow("SMALL", 100, 99, 500_000),
			fundRow("DEEP", 100, 95, 500_000),
			fundRow("RICH", 100, 102, 500_000),
		},
		inavs: map[string]float64{"SMALL": 100, "DEEP": 100, "RICH": 100},
	}

	quotes, err := NewService(src, time.Minute).Screen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 funds, got %d", len(quotes))
	}
	if quotes[0].Symbol != "DEEP" || quotes[1].Symbol != "SMALL" || quotes[2].Symbol != "RICH" {
		t.Errorf("wrong order: %s, %s, %s", quotes[0].Symbol, quotes[1].Symbol, quotes[2].Symbol)
	}
	if quotes[0].UndervaluedPct != 5 || !quotes[0].Undervalued {
		t.Errorf("DEEP should be 5%% undervalued, got %+v", quotes[0])
	}
	if quotes[2].UndervaluedPct != -2 || quotes[2].Undervalued {
		t.Errorf("RICH should be 2%% rich, got %+v", quotes[2])
	}
}

func TestScreenFiltersThinAndUnpriced(t *testing.T) {
	src := &fakeSource{
		rows: []nse.RawETFRow{
			fundRow("THIN", 100, 99, 100_000),
			fundRow("NONAV", 0, 99, 500_000),
			fundRow("NOPRICE", 100, 0, 500_000),
			fundRow("KEEP", 100, 99, 100_001),
		},
		inavs: map[string]float64{"KEEP": 100, "THIN": 100, "NONAV": 100, "NOPRICE": 100},
	}

	quotes, err := NewService(src, time.Minute).Screen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "KEEP" {
		t.Fatalf("expected only KEEP to survive, got %+v", quotes)
	}
	if src.inavCalls != 1 {
		t.Errorf("filtered funds must not cost quote requests, got %d", src.inavCalls)
	}
}

func TestScreenSkipsFundsWithoutINAV(t *testing.T) {
	src := &fakeSource{
		rows: []nse.RawETFRow{
			fundRow("HASNAV", 100, 99, 500_000),
			fundRow("ERRNAV", 100, 99, 500_000),
		},
		inavs: map[string]float64{"HASNAV": 100},
	}

	quotes, err := NewService(src, time.Minute).Screen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "HASNAV" {
		t.Fatalf("fund with failed iNAV lookup must be skipped, got %+v", quotes)
	}
}

func TestScreenMemoizesResults(t *testing.T) {
	src := &fakeSource{
		rows:  []nse.RawETFRow{fundRow("ABC", 100, 99, 500_000)},
		inavs: map[string]float64{"ABC": 100},
	}
	svc := NewService(src, time.Minute)

	if _, err := svc.Screen(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Screen(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.listCalls != 1 {
		t.Errorf("second screen within TTL should hit the cache, got %d list calls", src.listCalls)
	}
}
