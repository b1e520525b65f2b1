package analytics

import (
	"sort"

	"nse-deal-tracker/internal/types"
)

// AggregateByDateSymbol rolls up one symbol's deals per trading date. Output
// is ordered most recent date first, each group's deals by quantity.
func AggregateByDateSymbol(deals []types.DealRecord, symbol string) []DateGroup {
	type acc struct {
		group   DateGroup
		clients map[string]struct{}
	}

	grouped := make(map[string]*acc)
	order := make([]string, 0)

	for _, deal := range deals {
		if deal.Symbol != symbol {
			continue
		}
		a, ok := grouped[deal.Date]
		if !ok {
			a = &acc{
				group: DateGroup{
					Date:        deal.Date,
					Symbol:      deal.Symbol,
					CompanyName: deal.CompanyName,
				},
				clients: make(map[string]struct{}),
			}
			grouped[deal.Date] = a
			order = append(order, deal.Date)
		}

		value := deal.DealValue()
		if deal.Side == types.Buy {
			a.group.TotalBought += deal.Quantity
			a.group.TotalValueBought += value
		} else {
			a.group.TotalSold += deal.Quantity
			a.group.TotalValueSold += value
		}
		a.clients[deal.ClientName] = struct{}{}
		a.group.Deals = append(a.group.Deals, deal)
		a.group.DealCount++
	}

	groups := make([]DateGroup, 0, len(order))
	for _, date := range order {
		a := grouped[date]
		g := a.group
		g.NetPosition = g.TotalBought - g.TotalSold
		g.NetValue = g.TotalValueBought - g.TotalValueSold
		g.UniqueClients = len(a.clients)
		sortDealsByQuantityDesc(g.Deals)
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		ti, _ := types.ParseDealDate(groups[i].Date)
		tj, _ := types.ParseDealDate(groups[j].Date)
		return ti.After(tj)
	})
	return groups
}
