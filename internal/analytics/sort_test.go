package analytics

import (
	"testing"
)

func TestSortByFieldNumeric(t *testing.T) {
	groups := []SymbolGroup{
		{Symbol: "A", TotalValueBought: 10},
		{Symbol: "B", TotalValueBought: 30},
		{Symbol: "C", TotalValueBought: 20},
	}

	desc := SortByField(groups, "TotalValueBought", Descending)
	if desc[0].TotalValueBought != 30 || desc[1].TotalValueBought != 20 || desc[2].TotalValueBought != 10 {
		t.Errorf("descending sort wrong: %v %v %v",
			desc[0].TotalValueBought, desc[1].TotalValueBought, desc[2].TotalValueBought)
	}

	asc := SortByField(groups, "TotalValueBought", Ascending)
	if asc[0].TotalValueBought != 10 || asc[2].TotalValueBought != 30 {
		t.Errorf("ascending sort wrong: %v .. %v", asc[0].TotalValueBought, asc[2].TotalValueBought)
	}

	// Input order untouched.
	if groups[0].Symbol != "A" || groups[2].Symbol != "C" {
		t.Errorf("SortByField must not mutate its input")
	}
}

func TestSortByFieldString(t *testing.T) {
	groups := []SymbolGroup{
		{Symbol: "zeta"},
		{Symbol: "Alpha"},
		{Symbol: "beta"},
	}

	asc := SortByField(groups, "Symbol", Ascending)
	if asc[0].Symbol != "Alpha" || asc[1].Symbol != "beta" || asc[2].Symbol != "zeta" {
		t.Errorf("case-insensitive string sort wrong: %s %s %s",
			asc[0].Symbol, asc[1].Symbol, asc[2].Symbol)
	}
}

func TestSortByFieldStable(t *testing.T) {
	groups := []SymbolGroup{
		{Symbol: "first", DealCount: 1},
		{Symbol: "second", DealCount: 1},
		{Symbol: "third", DealCount: 1},
	}

	sorted := SortByField(groups, "DealCount", Descending)
	if sorted[0].Symbol != "first" || sorted[1].Symbol != "second" || sorted[2].Symbol != "third" {
		t.Errorf("equal keys must keep original order: %s %s %s",
			sorted[0].Symbol, sorted[1].Symbol, sorted[2].Symbol)
	}
}

func TestSortByFieldUnknownField(t *testing.T) {
	groups := []SymbolGroup{{Symbol: "B"}, {Symbol: "A"}}
	sorted := SortByField(groups, "NoSuchField", Ascending)
	if sorted[0].Symbol != "B" || sorted[1].Symbol != "A" {
		t.Errorf("unknown field must preserve order")
	}
}

func TestSortByFieldIntField(t *testing.T) {
	groups := []ClientGroup{
		{ClientName: "A", TotalDeals: 5},
		{ClientName: "B", TotalDeals: 2},
	}
	asc := SortByField(groups, "TotalDeals", Ascending)
	if asc[0].ClientName != "B" {
		t.Errorf("int field sort wrong: %s first", asc[0].ClientName)
	}
}
