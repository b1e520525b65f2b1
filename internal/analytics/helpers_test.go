package analytics

import (
	"testing"

	"nse-deal-tracker/internal/types"
)

func deal(t *testing.T, date, symbol, client, side string, qty int64, price float64) types.DealRecord {
	t.Helper()
	d, err := types.NewDealRecord(date, symbol, symbol+" Ltd", client, side, qty, price, "", types.Bulk)
	if err != nil {
		t.Fatalf("building deal: %v", err)
	}
	return d
}

func totalDealCountSymbols(groups []SymbolGroup) int {
	n := 0
	for _, g := range groups {
		n += g.DealCount
	}
	return n
}
