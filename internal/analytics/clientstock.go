package analytics

import (
	"math"
	"sort"

	"nse-deal-tracker/internal/types"
)

// AggregateByClientStock rolls the deal list up per (client, symbol) pair.
// WeightedAvgPrice is value over quantity across both sides, distinct from
// the side-specific averages. Output is ordered by absolute net value.
func AggregateByClientStock(deals []types.DealRecord, side types.SideData) []ClientStockGroup {
	grouped := make(map[string][]types.DealRecord)
	order := make([]string, 0)

	for _, deal := range deals {
		key := deal.ClientName + "|" + deal.Symbol
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], deal)
	}

	groups := make([]ClientStockGroup, 0, len(order))
	for _, key := range order {
		pairDeals := grouped[key]
		g := ClientStockGroup{
			ClientName:  pairDeals[0].ClientName,
			Symbol:      pairDeals[0].Symbol,
			CompanyName: pairDeals[0].CompanyName,
			DealCount:   len(pairDeals),
		}

		var totalQty int64
		var totalValue float64
		for _, deal := range pairDeals {
			value := deal.DealValue()
			if deal.Side == types.Buy {
				g.TotalBought += deal.Quantity
				g.TotalValueBought += value
			} else {
				g.TotalSold += deal.Quantity
				g.TotalValueSold += value
			}
			totalQty += deal.Quantity
			totalValue += value
		}

		g.NetShares = g.TotalBought - g.TotalSold
		g.NetValue = g.TotalValueBought - g.TotalValueSold
		g.AvgBuyPrice = safeDiv(g.TotalValueBought, g.TotalBought)
		g.AvgSellPrice = safeDiv(g.TotalValueSold, g.TotalSold)
		g.WeightedAvgPrice = safeDiv(totalValue, totalQty)

		// Date endpoints come from an ascending sort; the exposed deal list
		// is most recent first.
		byDate := append([]types.DealRecord(nil), pairDeals...)
		sort.SliceStable(byDate, func(i, j int) bool {
			return byDate[i].Timestamp.Before(byDate[j].Timestamp)
		})
		g.FirstDealDate = byDate[0].Date
		g.LastDealDate = byDate[len(byDate)-1].Date
		g.Deals = append([]types.DealRecord(nil), pairDeals...)
		sortDealsByDateDesc(g.Deals)

		if side.MarketCap != nil {
			g.MarketCap = side.MarketCap[g.Symbol]
		}
		if side.Price != nil {
			g.Price = side.Price[g.Symbol]
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return math.Abs(groups[i].NetValue) > math.Abs(groups[j].NetValue)
	})
	return groups
}
