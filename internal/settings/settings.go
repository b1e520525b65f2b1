package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FilterSettings are the persisted view preferences.
type FilterSettings struct {
	HideIntraday bool   `json:"hideIntraday"`
	DealType     string `json:"dealType"`
	DateFilter   string `json:"dateFilter"`
	FromDate     string `json:"fromDate,omitempty"`
	ToDate       string `json:"toDate,omitempty"`
}

// Defaults are the settings served before anything was saved. Intraday
// churn is hidden out of the box.
func Defaults() FilterSettings {
	return FilterSettings{
		HideIntraday: true,
		DealType:     "both",
		DateFilter:   "1W",
	}
}

// Update is a partial settings change. Nil fields keep their stored value.
type Update struct {
	HideIntraday *bool   `json:"hideIntraday,omitempty"`
	DealType     *string `json:"dealType,omitempty"`
	DateFilter   *string `json:"dateFilter,omitempty"`
	FromDate     *string `json:"fromDate,omitempty"`
	ToDate       *string `json:"toDate,omitempty"`
}

// Store persists filter settings to a JSON file. Reads overlay the stored
// values on the defaults, so new fields pick up their default until saved.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored settings merged over the defaults. A missing or
// unreadable file yields the defaults.
func (s *Store) Load() FilterSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() FilterSettings {
	settings := Defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return Defaults()
	}
	return settings
}

// Save applies the non-nil fields of update to the stored settings and
// writes the result back.
func (s *Store) Save(update Update) (FilterSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.load()
	if update.HideIntraday != nil {
		settings.HideIntraday = *update.HideIntraday
	}
	if update.DealType != nil {
		settings.DealType = *update.DealType
	}
	if update.DateFilter != nil {
		settings.DateFilter = *update.DateFilter
	}
	if update.FromDate != nil {
		settings.FromDate = *update.FromDate
	}
	if update.ToDate != nil {
		settings.ToDate = *update.ToDate
	}

	if err := s.write(settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// Reset removes the stored file so the next Load serves the defaults.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}

func (s *Store) write(settings FilterSettings) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
