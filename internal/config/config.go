// Package config loads and validates ecourts configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/ecourts-cnr/internal/headless/detector"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Portal   PortalConfig   `mapstructure:"portal"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Detector DetectorConfig `mapstructure:"detector"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PortalConfig locates the eCourts search page.
type PortalConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	CNRSelector string `mapstructure:"cnr_selector"`
}

// HTTPConfig configures the plain HTTP probe.
type HTTPConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// BrowserConfig configures Chrome for the interactive session and the probe.
type BrowserConfig struct {
	SettleSeconds      int  `mapstructure:"settle_seconds"`
	ProbeSettleSeconds int  `mapstructure:"probe_settle_seconds"`
	NavTimeoutSeconds  int  `mapstructure:"nav_timeout_seconds"`
	WindowWidth        int  `mapstructure:"window_width"`
	WindowHeight       int  `mapstructure:"window_height"`
	Headless           bool `mapstructure:"headless"`
	ProbeEnabled       bool `mapstructure:"probe_enabled"`

	// UserAgent overrides Chrome's own; empty keeps the browser default.
	UserAgent string `mapstructure:"user_agent"`
}

// DetectorConfig tunes the reachability heuristics.
type DetectorConfig struct {
	MinLength int      `mapstructure:"min_length"`
	Phrases   []string `mapstructure:"phrases"`
}

// StorageConfig selects where results and snapshots are written.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	BaseDir   string `mapstructure:"base_dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ECOURTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("portal.base_url", "https://services.ecourts.gov.in/ecourtindia_v6/")
	v.SetDefault("portal.cnr_selector", "#cino")
	v.SetDefault("http.user_agent", "ecourts-scraper-test/1.0 (+https://example.com)")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("browser.settle_seconds", 3)
	v.SetDefault("browser.probe_settle_seconds", 4)
	v.SetDefault("browser.nav_timeout_seconds", 60)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.probe_enabled", true)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("detector.min_length", detector.DefaultMinLength)
	v.SetDefault("detector.phrases", detector.DefaultPhrases)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.base_dir", "results")
	v.SetDefault("storage.gcs_bucket", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	u, err := url.Parse(c.Portal.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("portal.base_url must be an absolute URL")
	}
	if strings.TrimSpace(c.Portal.CNRSelector) == "" {
		return fmt.Errorf("portal.cnr_selector must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Browser.SettleSeconds < 0 || c.Browser.ProbeSettleSeconds < 0 {
		return fmt.Errorf("browser settle delays must be >= 0")
	}
	if c.Browser.NavTimeoutSeconds <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window size must be > 0")
	}
	if c.Detector.MinLength <= 0 {
		return fmt.Errorf("detector.min_length must be > 0")
	}
	switch c.Storage.Backend {
	case "local":
		if strings.TrimSpace(c.Storage.BaseDir) == "" {
			return fmt.Errorf("storage.base_dir must be set for the local backend")
		}
	case "gcs":
		if strings.TrimSpace(c.Storage.GCSBucket) == "" {
			return fmt.Errorf("storage.gcs_bucket must be set for the gcs backend")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.backend %q is not one of local, gcs, memory", c.Storage.Backend)
	}
	return nil
}

// HTTPTimeout returns the plain HTTP fetch budget.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// NavTimeout bounds each browser step.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSeconds) * time.Second
}

// SettleDelay is the pause after navigation in the interactive session.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.Browser.SettleSeconds) * time.Second
}

// ProbeSettleDelay is the pause after navigation in the headless probe.
func (c Config) ProbeSettleDelay() time.Duration {
	return time.Duration(c.Browser.ProbeSettleSeconds) * time.Second
}
