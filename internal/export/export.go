package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"nse-deal-tracker/internal/analytics"
	"nse-deal-tracker/internal/types"
)

// WriteDealsCSV writes the deal list as CSV, one row per deal.
func WriteDealsCSV(w io.Writer, deals []types.DealRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	headers := []string{"date", "symbol", "company", "client", "side", "quantity", "price", "value", "deal_type", "remarks"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, d := range deals {
		row := []string{
			d.Date,
			d.Symbol,
			d.CompanyName,
			d.ClientName,
			string(d.Side),
			strconv.FormatInt(d.Quantity, 10),
			formatFloat(d.Price),
			formatFloat(d.DealValue()),
			string(d.DealType),
			d.Remarks,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSymbolsCSV writes the per-symbol rollup as CSV.
func WriteSymbolsCSV(w io.Writer, groups []analytics.SymbolGroup) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	headers := []string{"symbol", "company", "bought", "sold", "buy_value", "sell_value",
		"net_position", "net_value", "deals", "clients", "avg_buy", "avg_sell", "market_cap"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, g := range groups {
		row := []string{
			g.Symbol,
			g.CompanyName,
			strconv.FormatInt(g.TotalBought, 10),
			strconv.FormatInt(g.TotalSold, 10),
			formatFloat(g.TotalValueBought),
			formatFloat(g.TotalValueSold),
			strconv.FormatInt(g.NetPosition, 10),
			formatFloat(g.NetValue),
			strconv.Itoa(g.DealCount),
			strconv.Itoa(g.UniqueClients),
			formatFloat(g.AvgBuyPrice),
			formatFloat(g.AvgSellPrice),
			formatFloat(g.MarketCap),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
