package types

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Side is the direction of a disclosed trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// DealType marks which disclosure feed a trade came from. Both is only
// assigned by deduplication when the same trade appears in both feeds.
type DealType string

const (
	Bulk  DealType = "BULK"
	Block DealType = "BLOCK"
	Both  DealType = "BOTH"
)

// Date layouts accepted from the NSE feeds. The JSON API reports
// "02-Jan-2006", the CSV download "02-01-2006"; ISO shows up in cached
// responses. Records always store the canonical layout, whatever the feed
// delivered, so date equality never depends on which transport served a row.
const canonicalDateLayout = "02-01-2006"

var dealDateLayouts = []string{canonicalDateLayout, "02-Jan-2006", "2006-01-02"}

// DealRecord is one disclosed bulk/block trade.
type DealRecord struct {
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"-"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"companyName"`
	ClientName  string    `json:"clientName"`
	Side        Side      `json:"side"`
	Quantity    int64     `json:"quantity"`
	Price       float64   `json:"price"`
	Remarks     string    `json:"remarks"`
	DealType    DealType  `json:"dealType"`
}

// DealValue is the traded value of the record. Never stored, always derived.
func (d DealRecord) DealValue() float64 {
	return float64(d.Quantity) * d.Price
}

// Key renders the six-field uniqueness tuple as a composite string. Two
// records with the same key are the same real-world trade reported twice.
func (d DealRecord) Key() string {
	return d.Date + "|" + d.Symbol + "|" + d.ClientName + "|" +
		strconv.FormatInt(d.Quantity, 10) + "|" +
		strconv.FormatFloat(d.Price, 'f', -1, 64) + "|" + string(d.Side)
}

// ParseDealDate parses a feed date string into an orderable instant.
func ParseDealDate(s string) (time.Time, error) {
	for _, layout := range dealDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable deal date %q", s)
}

// NewDealRecord validates the raw field values and builds a DealRecord.
// Validation happens here, at the construction boundary, so that malformed
// rows fail fast instead of propagating NaN through aggregation.
func NewDealRecord(date, symbol, company, client, side string, qty int64, price float64, remarks string, dealType DealType) (DealRecord, error) {
	ts, err := ParseDealDate(date)
	if err != nil {
		return DealRecord{}, err
	}
	if symbol == "" {
		return DealRecord{}, errors.New("empty symbol")
	}
	if side != string(Buy) && side != string(Sell) {
		return DealRecord{}, fmt.Errorf("invalid side %q", side)
	}
	if qty < 0 {
		return DealRecord{}, fmt.Errorf("negative quantity %d", qty)
	}
	if price < 0 {
		return DealRecord{}, fmt.Errorf("negative price %v", price)
	}
	if remarks == "" {
		remarks = "-"
	}
	return DealRecord{
		Date:        ts.Format(canonicalDateLayout),
		Timestamp:   ts,
		Symbol:      symbol,
		CompanyName: company,
		ClientName:  client,
		Side:        Side(side),
		Quantity:    qty,
		Price:       price,
		Remarks:     remarks,
		DealType:    dealType,
	}, nil
}

// DedupStats reports what deduplication did to the combined feeds.
type DedupStats struct {
	Total      int `json:"total"`
	Duplicates int `json:"duplicates"`
	Unique     int `json:"unique"`
}

// IntradayStats reports the intraday classification over a deal universe.
type IntradayStats struct {
	Total    int `json:"total"`
	Intraday int `json:"intraday"`
	Filtered int `json:"filtered"`
}

// SideData is the market-cap/price lookup tables keyed by symbol. Absent
// entries read as 0 and render downstream as "not found".
type SideData struct {
	MarketCap map[string]float64 `json:"marketCapData"`
	Price     map[string]float64 `json:"priceData"`
	AskPrice  map[string]float64 `json:"askPriceData"`
}

// NewSideData returns an empty, non-nil set of lookup tables.
func NewSideData() SideData {
	return SideData{
		MarketCap: map[string]float64{},
		Price:     map[string]float64{},
		AskPrice:  map[string]float64{},
	}
}
