package intraday

import (
	"testing"

	"nse-deal-tracker/internal/types"
)

func deal(t *testing.T, date, symbol, client, side string, qty int64) types.DealRecord {
	t.Helper()
	d, err := types.NewDealRecord(date, symbol, symbol+" Ltd", client, side, qty, 100, "", types.Bulk)
	if err != nil {
		t.Fatalf("building deal: %v", err)
	}
	return d
}

func TestIsIntradayFlatPosition(t *testing.T) {
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "ABC", "X", "BUY", 1000),
		deal(t, "01-01-2024", "ABC", "X", "SELL", 1000),
	}

	c := Default()
	if !c.IsIntraday(deals[0], deals) {
		t.Error("perfectly offset buy/sell should classify as intraday")
	}
}

func TestIsIntradayOneSided(t *testing.T) {
	deals := []types.DealRecord{deal(t, "01-01-2024", "ABC", "X", "BUY", 1000)}

	c := Default()
	if c.IsIntraday(deals[0], deals) {
		t.Error("a lone 1000-share buy is a directional position, not intraday")
	}
}

func TestIsIntradayBufferBoundary(t *testing.T) {
	c := Default()

	cases := []struct {
		name     string
		bought   int64
		sold     int64
		intraday bool
	}{
		// volume 980, buffer max(100, 49) = 100
		{"small imbalance under floor", 500, 480, true},
		// volume 1000, diff exactly at the 100-share floor
		{"diff equal to buffer", 550, 450, true},
		// volume 1001, diff one share past the floor
		{"diff just past buffer", 551, 450, false},
		// volume 10000, buffer max(100, 500) = 500
		{"percent buffer dominates", 5200, 4800, true},
		{"past percent buffer", 5300, 4700, false},
	}

	for _, tc := range cases {
		deals := []types.DealRecord{
			deal(t, "01-01-2024", "Y", "X", "BUY", tc.bought),
			deal(t, "01-01-2024", "Y", "X", "SELL", tc.sold),
		}
		if got := c.IsIntraday(deals[0], deals); got != tc.intraday {
			t.Errorf("%s: bought=%d sold=%d: got intraday=%v, want %v",
				tc.name, tc.bought, tc.sold, got, tc.intraday)
		}
	}
}

func TestIsIntradayIgnoresOtherClientsDaysSymbols(t *testing.T) {
	target := deal(t, "01-01-2024", "ABC", "X", "BUY", 1000)
	deals := []types.DealRecord{
		target,
		deal(t, "01-01-2024", "ABC", "OTHER", "SELL", 1000),
		deal(t, "02-01-2024", "ABC", "X", "SELL", 1000),
		deal(t, "01-01-2024", "XYZ", "X", "SELL", 1000),
	}

	if Default().IsIntraday(target, deals) {
		t.Error("offsetting sells by other clients/days/symbols must not count")
	}
}

func TestFilterConservation(t *testing.T) {
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "Y", "X", "BUY", 500),
		deal(t, "01-01-2024", "Y", "X", "SELL", 480),
		deal(t, "01-01-2024", "Z", "W", "BUY", 5000),
	}

	c := Default()
	if got := c.Filter(deals, false); len(got) != len(deals) {
		t.Errorf("hide=false must be a no-op, got %d of %d deals", len(got), len(deals))
	}

	stats := c.Stats(deals)
	filtered := c.Filter(deals, true)
	if len(filtered) != stats.Filtered {
		t.Errorf("filtered length %d disagrees with stats.Filtered %d", len(filtered), stats.Filtered)
	}
	if stats.Total != len(deals) || stats.Intraday+stats.Filtered != stats.Total {
		t.Errorf("inconsistent stats: %+v", stats)
	}
}

func TestFilterHidesRoundTrip(t *testing.T) {
	// Client X buys 500 and sells 480 of Y the same day: diff 20, volume 980,
	// buffer max(100, 49) = 100, so both legs are intraday.
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "Y", "X", "BUY", 500),
		deal(t, "01-01-2024", "Y", "X", "SELL", 480),
		deal(t, "01-01-2024", "Z", "W", "BUY", 5000),
	}

	filtered := Default().Filter(deals, true)
	if len(filtered) != 1 {
		t.Fatalf("expected only the directional deal to survive, got %d", len(filtered))
	}
	if filtered[0].Symbol != "Z" {
		t.Errorf("wrong survivor: %+v", filtered[0])
	}
}

func TestFilterUsesFullUniverse(t *testing.T) {
	// Three legs that only net out when the whole day is considered. If the
	// classifier ran against partially filtered output the answer would
	// change between records.
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "Y", "X", "BUY", 600),
		deal(t, "01-01-2024", "Y", "X", "BUY", 400),
		deal(t, "01-01-2024", "Y", "X", "SELL", 1000),
	}

	filtered := Default().Filter(deals, true)
	if len(filtered) != 0 {
		t.Errorf("all three legs net flat and should be hidden, %d survived", len(filtered))
	}
}

func TestNewClampsZeroSettings(t *testing.T) {
	c := New(0, 0)
	if c.MinBufferShares != DefaultMinBufferShares || c.VolumeFraction != DefaultVolumeFraction {
		t.Errorf("zero settings should fall back to defaults, got %+v", c)
	}
}

func TestCustomTolerance(t *testing.T) {
	// A 10-share floor with the default fraction: volume 980, buffer
	// max(10, 49) = 49, so a 20-share differential still nets flat.
	c := New(10, 0.05)
	deals := []types.DealRecord{
		deal(t, "01-01-2024", "Y", "X", "BUY", 500),
		deal(t, "01-01-2024", "Y", "X", "SELL", 480),
	}
	if !c.IsIntraday(deals[0], deals) {
		t.Error("20-share diff within 49-share buffer should be intraday")
	}

	// Tighten the fraction and the same day turns directional.
	tight := New(10, 0.01)
	if tight.IsIntraday(deals[0], deals) {
		t.Error("20-share diff past the 10-share buffer should be directional")
	}
}
