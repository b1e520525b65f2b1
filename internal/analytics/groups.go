package analytics

import (
	"nse-deal-tracker/internal/types"
)

// SymbolGroup is the per-symbol rollup consumed by the deal analytics page.
type SymbolGroup struct {
	Symbol           string             `json:"symbol"`
	CompanyName      string             `json:"companyName"`
	TotalBought      int64              `json:"totalBought"`
	TotalSold        int64              `json:"totalSold"`
	TotalValueBought float64            `json:"totalValueBought"`
	TotalValueSold   float64            `json:"totalValueSold"`
	NetPosition      int64              `json:"netPosition"`
	NetValue         float64            `json:"netValue"`
	DealCount        int                `json:"dealCount"`
	UniqueClients    int                `json:"uniqueClients"`
	AvgBuyPrice      float64            `json:"avgBuyPrice"`
	AvgSellPrice     float64            `json:"avgSellPrice"`
	AvgDealSize      float64            `json:"avgDealSize"`
	MinPrice         float64            `json:"minPrice"`
	MaxPrice         float64            `json:"maxPrice"`
	MarketCap        float64            `json:"marketCap"`
	Price            float64            `json:"price"`
	AskPrice         float64            `json:"askPrice"`
	Deals            []types.DealRecord `json:"deals"`
}

// ClientStockSummary is one symbol's slice of a client's activity inside the
// per-client rollup.
type ClientStockSummary struct {
	Symbol           string             `json:"symbol"`
	CompanyName      string             `json:"companyName"`
	NetShares        int64              `json:"totalShares"`
	TotalBought      int64              `json:"totalBought"`
	TotalSold        int64              `json:"totalSold"`
	TotalValueBought float64            `json:"totalValueBought"`
	TotalValueSold   float64            `json:"totalValueSold"`
	NetValue         float64            `json:"netValue"`
	DealCount        int                `json:"dealCount"`
	AvgBuyPrice      float64            `json:"avgBuyPrice"`
	AvgSellPrice     float64            `json:"avgSellPrice"`
	Deals            []types.DealRecord `json:"deals"`
}

// ClientGroup is the per-client rollup: totals across every stock the client
// touched plus a per-symbol breakdown.
type ClientGroup struct {
	ClientName       string               `json:"clientName"`
	TotalBought      int64                `json:"totalBought"`
	TotalSold        int64                `json:"totalSold"`
	TotalValueBought float64              `json:"totalValueBought"`
	TotalValueSold   float64              `json:"totalValueSold"`
	NetValue         float64              `json:"netValue"`
	UniqueStocks     int                  `json:"uniqueStocks"`
	TotalDeals       int                  `json:"totalDeals"`
	StockData        []ClientStockSummary `json:"stockData"`
}

// ClientStockGroup is the composite (client, symbol) rollup.
type ClientStockGroup struct {
	ClientName       string             `json:"clientName"`
	Symbol           string             `json:"symbol"`
	CompanyName      string             `json:"companyName"`
	NetShares        int64              `json:"totalShares"`
	TotalBought      int64              `json:"totalBought"`
	TotalSold        int64              `json:"totalSold"`
	TotalValueBought float64            `json:"totalValueBought"`
	TotalValueSold   float64            `json:"totalValueSold"`
	NetValue         float64            `json:"netValue"`
	DealCount        int                `json:"dealCount"`
	AvgBuyPrice      float64            `json:"avgBuyPrice"`
	AvgSellPrice     float64            `json:"avgSellPrice"`
	WeightedAvgPrice float64            `json:"weightedAvgPrice"`
	FirstDealDate    string             `json:"firstDealDate"`
	LastDealDate     string             `json:"lastDealDate"`
	MarketCap        float64            `json:"marketCap"`
	Price            float64            `json:"price"`
	Deals            []types.DealRecord `json:"deals"`
}

// DateGroup is the per-date rollup for a single symbol.
type DateGroup struct {
	Date             string             `json:"date"`
	Symbol           string             `json:"symbol"`
	CompanyName      string             `json:"companyName"`
	TotalBought      int64              `json:"totalBought"`
	TotalSold        int64              `json:"totalSold"`
	TotalValueBought float64            `json:"totalValueBought"`
	TotalValueSold   float64            `json:"totalValueSold"`
	NetPosition      int64              `json:"netPosition"`
	NetValue         float64            `json:"netValue"`
	DealCount        int                `json:"dealCount"`
	UniqueClients    int                `json:"uniqueClients"`
	Deals            []types.DealRecord `json:"deals"`
}

// safeDiv is the shared zero-guard: averages over an empty side are 0,
// never NaN.
func safeDiv(value float64, qty int64) float64 {
	if qty == 0 {
		return 0
	}
	return value / float64(qty)
}
