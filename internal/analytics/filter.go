package analytics

import (
	"strings"
)

// Query is a free-text filter over a rollup. Client matches the client name,
// Stock matches the symbol or the company name. Empty or whitespace-only
// queries match everything; both set means both must match.
type Query struct {
	Client string
	Stock  string
}

// IsEmpty reports whether the query matches everything.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Client) == "" && strings.TrimSpace(q.Stock) == ""
}

// FilterGroups keeps the groups matching q. The fields callback extracts the
// client name, symbol, and company name of a group; rollups without a client
// or company dimension return "" for it.
func FilterGroups[T any](groups []T, q Query, fields func(T) (client, symbol, company string)) []T {
	clientQ := strings.ToLower(strings.TrimSpace(q.Client))
	stockQ := strings.ToLower(strings.TrimSpace(q.Stock))
	if clientQ == "" && stockQ == "" {
		return groups
	}

	kept := make([]T, 0, len(groups))
	for _, g := range groups {
		client, symbol, company := fields(g)
		if clientQ != "" && !strings.Contains(strings.ToLower(client), clientQ) {
			continue
		}
		if stockQ != "" &&
			!strings.Contains(strings.ToLower(symbol), stockQ) &&
			!strings.Contains(strings.ToLower(company), stockQ) {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// Field extractors for the rollup types, for use with FilterGroups.

func SymbolGroupFields(g SymbolGroup) (string, string, string) {
	return "", g.Symbol, g.CompanyName
}

func ClientGroupFields(g ClientGroup) (string, string, string) {
	return g.ClientName, "", ""
}

func ClientStockGroupFields(g ClientStockGroup) (string, string, string) {
	return g.ClientName, g.Symbol, g.CompanyName
}
