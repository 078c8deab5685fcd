package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// CKAN API endpoint for the holiday dataset (recommended by Digital Agency).
	defaultCKANURL = "https://data.e-gov.go.jp/data/api/action/package_show?id=cao_20190522_0002"

	// Direct CSV URLs used when the CKAN API is unavailable.
	defaultFallbackURL1 = "https://www8.cao.go.jp/chosei/shukujitsu/syukujitsu.csv"
	defaultFallbackURL2 = "https://www8.cao.go.jp/chosei/shukujitsu/shukujitsu.csv"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3

	// cacheDirEnv overrides cache_dir from the config file.
	cacheDirEnv = "HOLIDAYCHECK_CACHE_DIR"
)

// config holds the settings for fetching the Cabinet Office CSV.
type config struct {
	CKANURL      string        `yaml:"ckan_url"`
	FallbackURLs []string      `yaml:"fallback_urls"`
	AllowedHosts []string      `yaml:"allowed_hosts"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	// CacheDir keeps the last downloaded CSV and its validators. Empty
	// disables caching.
	CacheDir string `yaml:"cache_dir"`
}

func defaultConfig() *config {
	return &config{
		CKANURL:      defaultCKANURL,
		FallbackURLs: []string{defaultFallbackURL1, defaultFallbackURL2},
		AllowedHosts: []string{"www8.cao.go.jp", "www.cao.go.jp"},
		Timeout:      defaultTimeout,
		MaxRetries:   defaultMaxRetries,
	}
}

// loadConfig reads a YAML config file over the defaults. An empty path or a
// missing file yields the defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if dir := os.Getenv(cacheDirEnv); dir != "" {
		cfg.CacheDir = dir
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("config: max_retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.CKANURL == "" && len(c.FallbackURLs) == 0 {
		return fmt.Errorf("config: no ckan_url or fallback_urls configured")
	}
	return nil
}

func (c *config) hostAllowed(host string) bool {
	for _, h := range c.AllowedHosts {
		if h == host {
			return true
		}
	}
	return false
}
