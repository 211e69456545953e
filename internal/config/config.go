package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	Platform struct {
		// Host is the substring the guard checks the current URL against.
		Host     string `yaml:"host"`
		TradeURL string `yaml:"trade_url"`
		LoginURL string `yaml:"login_url"`
	} `yaml:"platform"`

	Browser struct {
		Headless         bool   `yaml:"headless"`
		SessionStatePath string `yaml:"session_state_path"`
		ScreenshotDir    string `yaml:"screenshot_dir"`
		UserAgent        string `yaml:"user_agent"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
	} `yaml:"browser"`

	Trade struct {
		ExpiryMinutes       int `yaml:"expiry_minutes"`
		SettleBufferSeconds int `yaml:"settle_buffer_seconds"`
		RetryAttempts       int `yaml:"retry_attempts"`
		RetryBackoffMillis  int `yaml:"retry_backoff_ms"`
		// SearchSettleMillis is the fixed delay after typing a search query.
		// The asset list offers no DOM-stability signal, so a tunable pause
		// stands in for one.
		SearchSettleMillis int `yaml:"search_settle_ms"`
	} `yaml:"trade"`

	LedgerPath string `yaml:"ledger_path"`
}

func (c *Config) Validate() error {
	if c.Platform.TradeURL == "" {
		return fmt.Errorf("platform.trade_url cannot be empty")
	}
	if c.Platform.Host == "" {
		return fmt.Errorf("platform.host cannot be empty")
	}
	if c.Trade.ExpiryMinutes <= 0 {
		return fmt.Errorf("trade.expiry_minutes must be positive, got %d", c.Trade.ExpiryMinutes)
	}
	if c.Trade.RetryAttempts <= 0 {
		return fmt.Errorf("trade.retry_attempts must be positive, got %d", c.Trade.RetryAttempts)
	}
	return nil
}

func Load(path string) (*Config, error) {
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

// Default returns a config with every field at its default value. Used by
// tests and as the base when no config file is present.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":3000"
	}
	if c.Platform.Host == "" {
		c.Platform.Host = "pocketoption.com"
	}
	if c.Platform.TradeURL == "" {
		c.Platform.TradeURL = "https://pocketoption.com/en/cabinet/"
	}
	if c.Platform.LoginURL == "" {
		c.Platform.LoginURL = "https://pocketoption.com/en/login/"
	}
	if c.Browser.SessionStatePath == "" {
		c.Browser.SessionStatePath = "po_storage.json"
	}
	if c.Browser.ScreenshotDir == "" {
		c.Browser.ScreenshotDir = "screenshots"
	}
	if c.Browser.TimeoutSeconds == 0 {
		c.Browser.TimeoutSeconds = 60
	}
	if c.Trade.ExpiryMinutes == 0 {
		c.Trade.ExpiryMinutes = 5
	}
	if c.Trade.SettleBufferSeconds == 0 {
		c.Trade.SettleBufferSeconds = 5
	}
	if c.Trade.RetryAttempts == 0 {
		c.Trade.RetryAttempts = 2
	}
	if c.Trade.RetryBackoffMillis == 0 {
		c.Trade.RetryBackoffMillis = 300
	}
	if c.Trade.SearchSettleMillis == 0 {
		c.Trade.SearchSettleMillis = 250
	}
	if c.LedgerPath == "" {
		c.LedgerPath = "trade_log.csv"
	}
}

func (c *Config) BrowserTimeout() time.Duration {
	return time.Duration(c.Browser.TimeoutSeconds) * time.Second
}

// ExpiryWait is the full blocking wait after a trade is placed: the expiry
// window plus the settlement buffer the platform needs to post the result.
func (c *Config) ExpiryWait() time.Duration {
	return time.Duration(c.Trade.ExpiryMinutes)*time.Minute +
		time.Duration(c.Trade.SettleBufferSeconds)*time.Second
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Trade.RetryBackoffMillis) * time.Millisecond
}

func (c *Config) SearchSettle() time.Duration {
	return time.Duration(c.Trade.SearchSettleMillis) * time.Millisecond
}
