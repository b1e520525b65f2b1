package intraday

import (
	"math"

	"nse-deal-tracker/internal/types"
)

// A client's same-day net position on one stock counts as flat when it is
// within 5% of the day's two-sided volume, with an absolute floor of 100
// shares for thinly traded names.
const (
	DefaultMinBufferShares = 100
	DefaultVolumeFraction  = 0.05
)

// Classifier decides whether a deal is part of a non-directional same-day
// round trip. The zero value is unusable; use New or Default.
type Classifier struct {
	MinBufferShares int64
	VolumeFraction  float64
}

// Default returns a classifier with the stock tolerance settings.
func Default() Classifier {
	return Classifier{
		MinBufferShares: DefaultMinBufferShares,
		VolumeFraction:  DefaultVolumeFraction,
	}
}

// New returns a classifier with explicit tolerance settings, falling back to
// the defaults for zero values.
func New(minBufferShares int64, volumeFraction float64) Classifier {
	c := Classifier{MinBufferShares: minBufferShares, VolumeFraction: volumeFraction}
	if c.MinBufferShares <= 0 {
		c.MinBufferShares = DefaultMinBufferShares
	}
	if c.VolumeFraction <= 0 {
		c.VolumeFraction = DefaultVolumeFraction
	}
	return c
}

// IsIntraday reports whether the client's same-symbol, same-day activity in
// universe nets out to an effectively flat position. The deal itself is a
// member of universe, so the subset is never empty.
func (c Classifier) IsIntraday(deal types.DealRecord, universe []types.DealRecord) bool {
	var totalBought, totalSold int64
	for _, d := range universe {
		if d.ClientName != deal.ClientName || d.Symbol != deal.Symbol || d.Date != deal.Date {
			continue
		}
		if d.Side == types.Buy {
			totalBought += d.Quantity
		} else {
			totalSold += d.Quantity
		}
	}

	totalVolume := totalBought + totalSold
	buffer := math.Max(float64(c.MinBufferShares), float64(totalVolume)*c.VolumeFraction)
	return math.Abs(float64(totalBought-totalSold)) <= buffer
}

// Filter returns deals unchanged when hide is false, otherwise only the
// records that are not intraday. Classification always runs against the full
// input as the universe, never against the partially filtered output.
func (c Classifier) Filter(deals []types.DealRecord, hide bool) []types.DealRecord {
	if !hide {
		return deals
	}
	kept := make([]types.DealRecord, 0, len(deals))
	for _, d := range deals {
		if !c.IsIntraday(d, deals) {
			kept = append(kept, d)
		}
	}
	return kept
}

// Stats counts intraday classifications over the same universe Filter uses.
func (c Classifier) Stats(deals []types.DealRecord) types.IntradayStats {
	intraday := 0
	for _, d := range deals {
		if c.IsIntraday(d, deals) {
			intraday++
		}
	}
	return types.IntradayStats{
		Total:    len(deals),
		Intraday: intraday,
		Filtered: len(deals) - intraday,
	}
}
