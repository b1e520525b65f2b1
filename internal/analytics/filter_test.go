package analytics

import (
	"testing"
)

func TestFilterGroupsClientQuery(t *testing.T) {
	groups := []ClientStockGroup{
		{ClientName: "GRAVITON RESEARCH", Symbol: "ABC", CompanyName: "ABC Ltd"},
		{ClientName: "JANE STREET", Symbol: "XYZ", CompanyName: "XYZ Industries"},
	}

	got := FilterGroups(groups, Query{Client: "graviton"}, ClientStockGroupFields)
	if len(got) != 1 || got[0].ClientName != "GRAVITON RESEARCH" {
		t.Errorf("client substring filter failed: %+v", got)
	}
}

func TestFilterGroupsStockQueryMatchesSymbolOrCompany(t *testing.T) {
	groups := []ClientStockGroup{
		{ClientName: "A", Symbol: "TATAMOTORS", CompanyName: "Tata Motors Limited"},
		{ClientName: "B", Symbol: "INFY", CompanyName: "Infosys Limited"},
	}

	bySymbol := FilterGroups(groups, Query{Stock: "infy"}, ClientStockGroupFields)
	if len(bySymbol) != 1 || bySymbol[0].Symbol != "INFY" {
		t.Errorf("symbol match failed: %+v", bySymbol)
	}

	byCompany := FilterGroups(groups, Query{Stock: "motors"}, ClientStockGroupFields)
	if len(byCompany) != 1 || byCompany[0].Symbol != "TATAMOTORS" {
		t.Errorf("company-name match failed: %+v", byCompany)
	}
}

func TestFilterGroupsCombinesWithAnd(t *testing.T) {
	groups := []ClientStockGroup{
		{ClientName: "FUND A", Symbol: "ABC", CompanyName: "ABC Ltd"},
		{ClientName: "FUND A", Symbol: "XYZ", CompanyName: "XYZ Ltd"},
		{ClientName: "FUND B", Symbol: "ABC", CompanyName: "ABC Ltd"},
	}

	got := FilterGroups(groups, Query{Client: "fund a", Stock: "abc"}, ClientStockGroupFields)
	if len(got) != 1 || got[0].ClientName != "FUND A" || got[0].Symbol != "ABC" {
		t.Errorf("AND semantics failed: %+v", got)
	}
}

func TestFilterGroupsBlankQueriesAreNoOp(t *testing.T) {
	groups := []SymbolGroup{{Symbol: "ABC"}, {Symbol: "XYZ"}}

	got := FilterGroups(groups, Query{Client: "   ", Stock: ""}, SymbolGroupFields)
	if len(got) != len(groups) {
		t.Errorf("blank queries must match everything, got %d of %d", len(got), len(groups))
	}
}
