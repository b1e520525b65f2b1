package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
		WriteTimeoutSec int    `yaml:"write_timeout_sec"`
		IdleTimeoutSec  int    `yaml:"idle_timeout_sec"`
	} `yaml:"server"`
	NSE struct {
		BaseURL          string  `yaml:"base_url"`
		TimeoutSec       int     `yaml:"timeout_sec"`
		RequestsPerSec   float64 `yaml:"requests_per_sec"`
		Retries          int     `yaml:"retries"`
		RetryDelayMs     int     `yaml:"retry_delay_ms"`
		CacheDir         string  `yaml:"cache_dir"`
		CacheTTLMinutes  int     `yaml:"cache_ttl_minutes"`
		WarmupQuoteSymbol string `yaml:"warmup_quote_symbol"`
	} `yaml:"nse"`
	Sheets struct {
		SheetID string `yaml:"sheet_id"`
		GID     string `yaml:"gid"`
	} `yaml:"sheets"`
	Screener struct {
		Enabled bool   `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"screener"`
	Kite struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"kite"`
	Intraday struct {
		MinBufferShares int64   `yaml:"min_buffer_shares"`
		VolumeFraction  float64 `yaml:"volume_fraction"`
	} `yaml:"intraday"`
	Defaults struct {
		DealType     string `yaml:"deal_type"`
		DateFilter   string `yaml:"date_filter"`
		HideIntraday bool   `yaml:"hide_intraday"`
	} `yaml:"defaults"`
	ResultsTTLMinutes int    `yaml:"results_ttl_minutes"`
	SettingsPath      string `yaml:"settings_path"`
}

func (c *Config) Validate() error {
	if c.Defaults.DealType != "bulk_deals" && c.Defaults.DealType != "block_deals" && c.Defaults.DealType != "both" {
		return fmt.Errorf("invalid defaults.deal_type '%s': must be 'bulk_deals', 'block_deals', or 'both'", c.Defaults.DealType)
	}
	if c.Intraday.VolumeFraction < 0 || c.Intraday.VolumeFraction > 1 {
		return fmt.Errorf("intraday.volume_fraction must be between 0 and 1, got %.3f", c.Intraday.VolumeFraction)
	}
	if c.Intraday.MinBufferShares < 0 {
		return fmt.Errorf("intraday.min_buffer_shares cannot be negative, got %d", c.Intraday.MinBufferShares)
	}
	if c.NSE.RequestsPerSec < 0 {
		return fmt.Errorf("nse.requests_per_sec cannot be negative, got %.2f", c.NSE.RequestsPerSec)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 15
	}
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 30
	}
	if c.Server.IdleTimeoutSec == 0 {
		c.Server.IdleTimeoutSec = 60
	}
	if c.NSE.BaseURL == "" {
		c.NSE.BaseURL = "https://www.nseindia.com"
	}
	if c.NSE.TimeoutSec == 0 {
		c.NSE.TimeoutSec = 30
	}
	if c.NSE.RequestsPerSec == 0 {
		c.NSE.RequestsPerSec = 2
	}
	if c.NSE.Retries == 0 {
		c.NSE.Retries = 3
	}
	if c.NSE.RetryDelayMs == 0 {
		c.NSE.RetryDelayMs = 750
	}
	if c.NSE.CacheDir == "" {
		c.NSE.CacheDir = "cache/deals"
	}
	if c.NSE.CacheTTLMinutes == 0 {
		c.NSE.CacheTTLMinutes = 30
	}
	if c.NSE.WarmupQuoteSymbol == "" {
		c.NSE.WarmupQuoteSymbol = "NIFTYBEES"
	}
	if c.Screener.BaseURL == "" {
		c.Screener.BaseURL = "https://www.screener.in"
	}
	if c.Intraday.MinBufferShares == 0 {
		c.Intraday.MinBufferShares = 100
	}
	if c.Intraday.VolumeFraction == 0 {
		c.Intraday.VolumeFraction = 0.05
	}
	if c.Defaults.DealType == "" {
		c.Defaults.DealType = "both"
	}
	if c.Defaults.DateFilter == "" {
		c.Defaults.DateFilter = "1W"
	}
	if c.ResultsTTLMinutes == 0 {
		c.ResultsTTLMinutes = 10
	}
	if c.SettingsPath == "" {
		c.SettingsPath = "data/settings.json"
	}
}
