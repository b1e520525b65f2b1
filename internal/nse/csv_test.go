package nse

import (
	"testing"

	"nse-deal-tracker/internal/types"
)

func TestParseCSV(t *testing.T) {
	data := []byte(`Date,Symbol,Security Name,Client Name,Buy/Sell,Quantity Traded,Trade Price,Remarks
01-01-2024,ABC,ABC Industries Ltd,SOME FUND,BUY,"1,00,000",50.25,-
02-01-2024,XYZ,XYZ Ltd,"DOE, JANE",SELL,5000,"1,250.50",
`)

	rows, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Quantity != 100000 {
		t.Errorf("grouped quantity: got %d, want 100000", first.Quantity)
	}
	if first.TradePrice != 50.25 {
		t.Errorf("price: got %v", first.TradePrice)
	}

	second := rows[1]
	if second.ClientName != "DOE, JANE" {
		t.Errorf("quoted client name with comma: got %q", second.ClientName)
	}
	if second.TradePrice != 1250.50 {
		t.Errorf("quoted grouped price: got %v", second.TradePrice)
	}
	if second.Remarks != "-" {
		t.Errorf("missing remarks must default to '-', got %q", second.Remarks)
	}
}

func TestParseCSVTooShort(t *testing.T) {
	if _, err := ParseCSV([]byte("just a header\n")); err == nil {
		t.Error("expected error for header-only payload")
	}
}

func TestParseCSVSkipsShortLines(t *testing.T) {
	data := []byte("h\n01-01-2024,ABC,ABC Ltd,X,BUY,100,50,-\nnot,enough,fields\n")
	rows, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected malformed line skipped, got %d rows", len(rows))
	}
}

func TestParseCSVBadQuantity(t *testing.T) {
	data := []byte("h\n01-01-2024,ABC,ABC Ltd,X,BUY,lots,50,-\n")
	if _, err := ParseCSV(data); err == nil {
		t.Error("expected error for non-numeric quantity")
	}
}

func TestRawDealRowToDealRecord(t *testing.T) {
	row := RawDealRow{
		Date:       "01-01-2024",
		Symbol:     "ABC",
		ScripName:  "ABC Ltd",
		ClientName: "X",
		BuySell:    "BUY",
		Quantity:   100,
		TradePrice: 50,
	}

	rec, err := row.ToDealRecord(types.Bulk)
	if err != nil {
		t.Fatalf("ToDealRecord: %v", err)
	}
	if rec.DealType != types.Bulk || rec.Side != types.Buy {
		t.Errorf("mapped record: %+v", rec)
	}
	if rec.Remarks != "-" {
		t.Errorf("remarks default: %q", rec.Remarks)
	}

	row.BuySell = "MAYBE"
	if _, err := row.ToDealRecord(types.Bulk); err == nil {
		t.Error("expected validation error for bad side")
	}
}

func TestFeedTypeDealType(t *testing.T) {
	if BulkDeals.DealType() != types.Bulk || BlockDeals.DealType() != types.Block {
		t.Error("feed type mapping wrong")
	}
}
