package analytics

import (
	"math"
	"sort"

	"nse-deal-tracker/internal/types"
)

// AggregateByClient rolls the deal list up per client, with a per-symbol
// breakdown inside each client. The breakdown is ordered by absolute net
// value, its deal lists by trade date (most recent first — unlike the
// per-symbol rollup's quantity ordering), and the client list itself by total
// value bought.
func AggregateByClient(deals []types.DealRecord) []ClientGroup {
	// Two-level grouping keyed client first, then symbol within the client.
	grouped := make(map[string]map[string][]types.DealRecord)
	clientOrder := make([]string, 0)
	symbolOrder := make(map[string][]string)

	for _, deal := range deals {
		bySymbol, ok := grouped[deal.ClientName]
		if !ok {
			bySymbol = make(map[string][]types.DealRecord)
			grouped[deal.ClientName] = bySymbol
			clientOrder = append(clientOrder, deal.ClientName)
		}
		if _, ok := bySymbol[deal.Symbol]; !ok {
			symbolOrder[deal.ClientName] = append(symbolOrder[deal.ClientName], deal.Symbol)
		}
		bySymbol[deal.Symbol] = append(bySymbol[deal.Symbol], deal)
	}

	groups := make([]ClientGroup, 0, len(clientOrder))
	for _, client := range clientOrder {
		g := ClientGroup{ClientName: client}

		for _, symbol := range symbolOrder[client] {
			symbolDeals := grouped[client][symbol]
			s := ClientStockSummary{
				Symbol:      symbol,
				CompanyName: symbolDeals[0].CompanyName,
				DealCount:   len(symbolDeals),
			}
			for _, deal := range symbolDeals {
				value := deal.DealValue()
				if deal.Side == types.Buy {
					s.TotalBought += deal.Quantity
					s.TotalValueBought += value
				} else {
					s.TotalSold += deal.Quantity
					s.TotalValueSold += value
				}
			}
			s.NetShares = s.TotalBought - s.TotalSold
			s.NetValue = s.TotalValueBought - s.TotalValueSold
			s.AvgBuyPrice = safeDiv(s.TotalValueBought, s.TotalBought)
			s.AvgSellPrice = safeDiv(s.TotalValueSold, s.TotalSold)
			s.Deals = append([]types.DealRecord(nil), symbolDeals...)
			sortDealsByDateDesc(s.Deals)

			g.TotalBought += s.TotalBought
			g.TotalSold += s.TotalSold
			g.TotalValueBought += s.TotalValueBought
			g.TotalValueSold += s.TotalValueSold
			g.TotalDeals += s.DealCount
			g.StockData = append(g.StockData, s)
		}

		g.NetValue = g.TotalValueBought - g.TotalValueSold
		g.UniqueStocks = len(g.StockData)
		sort.SliceStable(g.StockData, func(i, j int) bool {
			return math.Abs(g.StockData[i].NetValue) > math.Abs(g.StockData[j].NetValue)
		})
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalValueBought > groups[j].TotalValueBought
	})
	return groups
}
