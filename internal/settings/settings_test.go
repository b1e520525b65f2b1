package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "settings.json"))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestLoadDefaults(t *testing.T) {
	s := newStore(t)
	got := s.Load()
	if !got.HideIntraday {
		t.Error("default must hide intraday deals")
	}
	if got.DealType != "both" || got.DateFilter != "1W" {
		t.Errorf("defaults: %+v", got)
	}
}

func TestSaveMergesPartialUpdate(t *testing.T) {
	s := newStore(t)

	if _, err := s.Save(Update{DealType: strPtr("bulk")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Save(Update{HideIntraday: boolPtr(false)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got.DealType != "bulk" {
		t.Errorf("earlier save lost: %+v", got)
	}
	if got.HideIntraday {
		t.Error("hideIntraday update not applied")
	}
	if got.DateFilter != "1W" {
		t.Errorf("untouched field must keep default: %+v", got)
	}

	// Reload from disk.
	if reloaded := s.Load(); reloaded != got {
		t.Errorf("reloaded settings differ: %+v vs %+v", reloaded, got)
	}
}

func TestSaveCustomDateWindow(t *testing.T) {
	s := newStore(t)
	got, err := s.Save(Update{
		DateFilter: strPtr("custom"),
		FromDate:   strPtr("2024-01-01"),
		ToDate:     strPtr("2024-01-31"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got.FromDate != "2024-01-01" || got.ToDate != "2024-01-31" {
		t.Errorf("custom window: %+v", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	s := newStore(t)
	if _, err := s.Save(Update{DealType: strPtr("block")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := s.Load(); got != Defaults() {
		t.Errorf("post-reset settings: %+v", got)
	}

	// Resetting an already-absent file is not an error.
	if err := s.Reset(); err != nil {
		t.Errorf("second Reset: %v", err)
	}
}

func TestLoadToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(path)
	if got := s.Load(); got != Defaults() {
		t.Errorf("corrupt file must yield defaults: %+v", got)
	}
}
