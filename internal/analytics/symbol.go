package analytics

import (
	"sort"

	"nse-deal-tracker/internal/types"
)

// AggregateBySymbol rolls the deal list up per symbol. The side-data maps may
// be nil; symbols without an entry get 0, which the UI renders as "not
// found". The returned group list carries no ordering of its own — callers
// sort it with SortByField.
func AggregateBySymbol(deals []types.DealRecord, side types.SideData) []SymbolGroup {
	type acc struct {
		group   SymbolGroup
		clients map[string]struct{}
	}

	grouped := make(map[string]*acc)
	order := make([]string, 0)

	for _, deal := range deals {
		a, ok := grouped[deal.Symbol]
		if !ok {
			a = &acc{
				group: SymbolGroup{
					Symbol:      deal.Symbol,
					CompanyName: deal.CompanyName,
					MinPrice:    deal.Price,
					MaxPrice:    deal.Price,
				},
				clients: make(map[string]struct{}),
			}
			grouped[deal.Symbol] = a
			order = append(order, deal.Symbol)
		}

		value := deal.DealValue()
		if deal.Side == types.Buy {
			a.group.TotalBought += deal.Quantity
			a.group.TotalValueBought += value
		} else {
			a.group.TotalSold += deal.Quantity
			a.group.TotalValueSold += value
		}
		if deal.Price < a.group.MinPrice {
			a.group.MinPrice = deal.Price
		}
		if deal.Price > a.group.MaxPrice {
			a.group.MaxPrice = deal.Price
		}
		a.clients[deal.ClientName] = struct{}{}
		a.group.Deals = append(a.group.Deals, deal)
		a.group.DealCount++
	}

	groups := make([]SymbolGroup, 0, len(order))
	for _, symbol := range order {
		a := grouped[symbol]
		g := a.group
		g.NetPosition = g.TotalBought - g.TotalSold
		g.NetValue = g.TotalValueBought - g.TotalValueSold
		g.UniqueClients = len(a.clients)
		g.AvgBuyPrice = safeDiv(g.TotalValueBought, g.TotalBought)
		g.AvgSellPrice = safeDiv(g.TotalValueSold, g.TotalSold)
		g.AvgDealSize = safeDiv(float64(g.TotalBought+g.TotalSold), int64(g.DealCount))
		if side.MarketCap != nil {
			g.MarketCap = side.MarketCap[symbol]
		}
		if side.Price != nil {
			g.Price = side.Price[symbol]
		}
		if side.AskPrice != nil {
			g.AskPrice = side.AskPrice[symbol]
		}
		sortDealsByQuantityDesc(g.Deals)
		groups = append(groups, g)
	}
	return groups
}

func sortDealsByQuantityDesc(deals []types.DealRecord) {
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Quantity > deals[j].Quantity
	})
}

func sortDealsByDateDesc(deals []types.DealRecord) {
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Timestamp.After(deals[j].Timestamp)
	})
}
