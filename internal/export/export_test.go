package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"nse-deal-tracker/internal/analytics"
	"nse-deal-tracker/internal/types"
)

func TestWriteDealsCSV(t *testing.T) {
	rec, err := types.NewDealRecord("05-01-2024", "ABC", "ABC Ltd", "DOE, JANE", "BUY", 1000, 50.5, "-", types.Bulk)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteDealsCSV(&buf, []types.DealRecord{rec}); err != nil {
		t.Fatalf("WriteDealsCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][3] != "DOE, JANE" {
		t.Errorf("client with comma must survive quoting: %q", rows[1][3])
	}
	if rows[1][7] != "50500.00" {
		t.Errorf("value column: %q", rows[1][7])
	}
}

func TestWriteSymbolsCSV(t *testing.T) {
	groups := []analytics.SymbolGroup{{
		Symbol:      "ABC",
		CompanyName: "ABC Ltd",
		TotalBought: 1000,
		NetValue:    50500,
		DealCount:   1,
	}}

	var buf bytes.Buffer
	if err := WriteSymbolsCSV(&buf, groups); err != nil {
		t.Fatalf("WriteSymbolsCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "ABC" {
		t.Errorf("rows: %v", rows)
	}
}

func TestWriteDealsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDealsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteDealsCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("empty input must yield header only, got %d lines", got)
	}
}
