package nse

import (
	"fmt"

	"nse-deal-tracker/internal/types"
)

// FeedType selects which disclosure feed to pull.
type FeedType string

const (
	BulkDeals  FeedType = "bulk_deals"
	BlockDeals FeedType = "block_deals"
)

// DealType maps a feed to the tag its records carry.
func (f FeedType) DealType() types.DealType {
	if f == BlockDeals {
		return types.Block
	}
	return types.Bulk
}

// RawDealRow is one row of the historical bulk/block deals API. The BD_*
// field names are NSE's wire contract.
type RawDealRow struct {
	Date        string  `json:"BD_DT_DATE"`
	Symbol      string  `json:"BD_SYMBOL"`
	ScripName   string  `json:"BD_SCRIP_NAME"`
	ClientName  string  `json:"BD_CLIENT_NAME"`
	BuySell     string  `json:"BD_BUY_SELL"`
	Quantity    int64   `json:"BD_QTY_TRD"`
	TradePrice  float64 `json:"BD_TP_WATP"`
	Remarks     string  `json:"BD_REMARKS"`
}

// feedResponse is the envelope of the historical deals API.
type feedResponse struct {
	Data []RawDealRow `json:"data"`
}

// ToDealRecord maps a wire row into the canonical record, validating at the
// boundary so malformed rows never reach aggregation.
func (r RawDealRow) ToDealRecord(dealType types.DealType) (types.DealRecord, error) {
	rec, err := types.NewDealRecord(r.Date, r.Symbol, r.ScripName, r.ClientName,
		r.BuySell, r.Quantity, r.TradePrice, r.Remarks, dealType)
	if err != nil {
		return types.DealRecord{}, fmt.Errorf("row %s/%s: %w", r.Symbol, r.Date, err)
	}
	return rec, nil
}
