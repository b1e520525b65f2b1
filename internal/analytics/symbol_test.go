package analytics

import (
	"testing"

	"nse-deal-tracker/internal/types"
)

func TestAggregateBySymbolTotals(t *testing.T) {
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "ABC", "X", "BUY", 100, 50),
		deal(t, "01-01-2024", "ABC", "Y", "SELL", 40, 55),
		deal(t, "02-01-2024", "ABC", "X", "BUY", 60, 52),
		deal(t, "01-01-2024", "XYZ", "Z", "BUY", 10, 200),
	}

	groups := AggregateBySymbol(deals, types.NewSideData())
	if len(groups) != 2 {
		t.Fatalf("expected 2 symbol groups, got %d", len(groups))
	}
	if totalDealCountSymbols(groups) != len(deals) {
		t.Errorf("deal counts must conserve input length")
	}

	var abc SymbolGroup
	for _, g := range groups {
		if g.Symbol == "ABC" {
			abc = g
		}
	}
	if abc.TotalBought != 160 || abc.TotalSold != 40 {
		t.Errorf("bought/sold: got %d/%d, want 160/40", abc.TotalBought, abc.TotalSold)
	}
	if abc.TotalValueBought != 100*50+60*52 {
		t.Errorf("totalValueBought: got %v", abc.TotalValueBought)
	}
	if abc.NetPosition != 120 {
		t.Errorf("netPosition: got %d, want 120", abc.NetPosition)
	}
	if abc.NetValue != abc.TotalValueBought-abc.TotalValueSold {
		t.Errorf("netValue identity violated: %v", abc.NetValue)
	}
	if abc.UniqueClients != 2 {
		t.Errorf("uniqueClients: got %d, want 2", abc.UniqueClients)
	}
	if abc.MinPrice != 50 || abc.MaxPrice != 55 {
		t.Errorf("min/max price: got %v/%v, want 50/55", abc.MinPrice, abc.MaxPrice)
	}
	wantAvgDealSize := float64(160+40) / 3
	if abc.AvgDealSize != wantAvgDealSize {
		t.Errorf("avgDealSize: got %v, want %v", abc.AvgDealSize, wantAvgDealSize)
	}
}

func TestAggregateBySymbolZeroGuards(t *testing.T) {
	deals := []types.DealRecord{deal(t, "01-01-2024", "ABC", "X", "SELL", 100, 50)}

	groups := AggregateBySymbol(deals, types.NewSideData())
	g := groups[0]
	if g.AvgBuyPrice != 0 {
		t.Errorf("avgBuyPrice with no buys must be 0, got %v", g.AvgBuyPrice)
	}
	if g.AvgSellPrice != 50 {
		t.Errorf("avgSellPrice: got %v, want 50", g.AvgSellPrice)
	}
}

func TestAggregateBySymbolSideData(t *testing.T) {
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "ABC", "X", "BUY", 100, 50),
		deal(t, "01-01-2024", "XYZ", "Y", "BUY", 10, 20),
	}
	side := types.SideData{
		MarketCap: map[string]float64{"ABC": 12500},
		Price:     map[string]float64{"ABC": 51.5},
		AskPrice:  map[string]float64{"ABC": 51.6},
	}

	groups := AggregateBySymbol(deals, side)
	for _, g := range groups {
		switch g.Symbol {
		case "ABC":
			if g.MarketCap != 12500 || g.Price != 51.5 || g.AskPrice != 51.6 {
				t.Errorf("ABC side data: %+v", g)
			}
		case "XYZ":
			if g.MarketCap != 0 || g.Price != 0 || g.AskPrice != 0 {
				t.Errorf("absent side data must default to 0: %+v", g)
			}
		}
	}
}

func TestAggregateBySymbolDealOrdering(t *testing.T) {
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "ABC", "X", "BUY", 100, 50),
		deal(t, "02-01-2024", "ABC", "Y", "BUY", 300, 50),
		deal(t, "03-01-2024", "ABC", "Z", "BUY", 200, 50),
	}

	groups := AggregateBySymbol(deals, types.NewSideData())
	got := groups[0].Deals
	if got[0].Quantity != 300 || got[1].Quantity != 200 || got[2].Quantity != 100 {
		t.Errorf("deals must be ordered by quantity descending: %v %v %v",
			got[0].Quantity, got[1].Quantity, got[2].Quantity)
	}
}

func TestAggregateBySymbolEmptyInput(t *testing.T) {
	if groups := AggregateBySymbol(nil, types.NewSideData()); len(groups) != 0 {
		t.Errorf("empty input must yield empty output, got %d groups", len(groups))
	}
}

// End-to-end scenario: one trade reported by both feeds collapses to a single
// BOTH-tagged record and aggregates once.
func TestAggregateBySymbolAfterDedup(t *testing.T) {
	d := deal(t, "01-01-2024", "ABC", "X", "BUY", 100, 50)
	d.DealType = types.Both

	groups := AggregateBySymbol([]types.DealRecord{d}, types.NewSideData())
	g := groups[0]
	if g.TotalBought != 100 || g.TotalValueBought != 5000 || g.DealCount != 1 {
		t.Errorf("deduped trade must aggregate once: %+v", g)
	}
}
