package dedup

import (
	"nse-deal-tracker/internal/types"
)

// Result holds the deduplicated deal list and what it took to get there.
type Result struct {
	Deals []types.DealRecord `json:"deals"`
	Stats types.DedupStats   `json:"stats"`
}

// Tag stamps every record in deals with the given feed type.
func Tag(deals []types.DealRecord, dealType types.DealType) []types.DealRecord {
	tagged := make([]types.DealRecord, len(deals))
	for i, d := range deals {
		d.DealType = dealType
		tagged[i] = d
	}
	return tagged
}

// Deduplicate merges the bulk and block feeds into one set of unique trades.
// The uniqueness key is (date, symbol, client, quantity, price, side); the
// first-seen record wins on every non-key field except DealType, which is
// promoted to BOTH when the same trade arrives from both feeds. Nil or empty
// inputs are fine.
func Deduplicate(bulkDeals, blockDeals []types.DealRecord) Result {
	all := make([]types.DealRecord, 0, len(bulkDeals)+len(blockDeals))
	all = append(all, Tag(bulkDeals, types.Bulk)...)
	all = append(all, Tag(blockDeals, types.Block)...)

	index := make(map[string]int, len(all))
	unique := make([]types.DealRecord, 0, len(all))
	duplicates := 0

	for _, deal := range all {
		key := deal.Key()
		at, seen := index[key]
		if !seen {
			index[key] = len(unique)
			unique = append(unique, deal)
			continue
		}
		duplicates++
		if unique[at].DealType != deal.DealType {
			unique[at].DealType = types.Both
		}
	}

	return Result{
		Deals: unique,
		Stats: types.DedupStats{
			Total:      len(all),
			Duplicates: duplicates,
			Unique:     len(unique),
		},
	}
}
