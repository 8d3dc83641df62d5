// Package config loads the dashboard settings from YAML with env overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"stock_dashboard/pkg/core/agent"

	"gopkg.in/yaml.v2"
)

// DefaultPath is used when DASHBOARD_CONFIG is not set.
const DefaultPath = "config/dashboard.yaml"

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	HTTP struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"http"`

	Providers struct {
		YahooChartURL   string `yaml:"yahoo_chart_url"`
		AlphaVantageURL string `yaml:"alpha_vantage_url"`
		NewsRSSURL      string `yaml:"news_rss_url"`
	} `yaml:"providers"`

	Cache struct {
		Dir string `yaml:"dir"`
		TTL struct {
			Prices       string `yaml:"prices"`
			Fundamentals string `yaml:"fundamentals"`
			News         string `yaml:"news"`
		} `yaml:"ttl"`
	} `yaml:"cache"`

	Sentiment struct {
		Scorer string `yaml:"scorer"` // lexicon | llm
	} `yaml:"sentiment"`

	News struct {
		Limit int `yaml:"limit"`
	} `yaml:"news"`

	Agents agent.Config `yaml:"agents"`

	// Secrets, from the environment only.
	AlphaVantageKey string `yaml:"-"`
	DatabaseURL     string `yaml:"-"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	c := &Config{}
	c.Server.Addr = ":8501"
	c.HTTP.TimeoutSeconds = 30
	c.HTTP.UserAgent = "Mozilla/5.0 (compatible; StockDashboard/1.0)"
	c.Providers.YahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	c.Providers.AlphaVantageURL = "https://www.alphavantage.co/query"
	c.Providers.NewsRSSURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	c.Cache.TTL.Prices = "1h"
	c.Cache.TTL.Fundamentals = "24h"
	c.Cache.TTL.News = "15m"
	c.Sentiment.Scorer = "lexicon"
	c.News.Limit = 10
	c.Agents.ActiveProvider = "gemini"
	return c
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Secrets are read from the environment afterwards.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	c.AlphaVantageKey = os.Getenv("ALPHA_VANTAGE_API_KEY")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	if addr := os.Getenv("DASHBOARD_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	return c, c.Validate()
}

// Validate checks values the YAML may have broken.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http.timeout_seconds value %d", c.HTTP.TimeoutSeconds)
	}
	if c.News.Limit <= 0 || c.News.Limit > 10 {
		return fmt.Errorf("news.limit must be between 1 and 10, got %d", c.News.Limit)
	}
	switch c.Sentiment.Scorer {
	case "lexicon", "llm":
	default:
		return fmt.Errorf("unknown sentiment.scorer %q", c.Sentiment.Scorer)
	}
	for name, raw := range map[string]string{
		"prices":       c.Cache.TTL.Prices,
		"fundamentals": c.Cache.TTL.Fundamentals,
		"news":         c.Cache.TTL.News,
	} {
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("invalid cache.ttl.%s: %w", name, err)
		}
	}
	return nil
}

// HTTPTimeout is the per-request timeout for provider calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// TTLs returns the parsed cache lifetimes. Call after Validate.
func (c *Config) TTLs() (prices, fundamentals, news time.Duration) {
	prices, _ = time.ParseDuration(c.Cache.TTL.Prices)
	fundamentals, _ = time.ParseDuration(c.Cache.TTL.Fundamentals)
	news, _ = time.ParseDuration(c.Cache.TTL.News)
	return prices, fundamentals, news
}
