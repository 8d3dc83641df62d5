package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "demo")
	t.Setenv("DASHBOARD_ADDR", "")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Addr != ":8501" {
		t.Errorf("expected default addr :8501, got %s", c.Server.Addr)
	}
	if c.AlphaVantageKey != "demo" {
		t.Errorf("expected key from env, got %q", c.AlphaVantageKey)
	}
	prices, fundamentals, news := c.TTLs()
	if prices != time.Hour || fundamentals != 24*time.Hour || news != 15*time.Minute {
		t.Errorf("unexpected default TTLs: %v %v %v", prices, fundamentals, news)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_ADDR", "")
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	yml := `
server:
  addr: ":9000"
cache:
  ttl:
    news: "5m"
sentiment:
  scorer: "llm"
agents:
  active_provider: "deepseek"
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Addr != ":9000" {
		t.Errorf("expected :9000, got %s", c.Server.Addr)
	}
	if c.Sentiment.Scorer != "llm" {
		t.Errorf("expected llm scorer, got %s", c.Sentiment.Scorer)
	}
	if c.Agents.ActiveProvider != "deepseek" {
		t.Errorf("expected deepseek provider, got %s", c.Agents.ActiveProvider)
	}
	_, _, news := c.TTLs()
	if news != 5*time.Minute {
		t.Errorf("expected 5m news TTL, got %v", news)
	}
	// untouched keys keep defaults
	if c.News.Limit != 10 {
		t.Errorf("expected default news limit 10, got %d", c.News.Limit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad ttl", func(c *Config) { c.Cache.TTL.Prices = "soon" }},
		{"bad scorer", func(c *Config) { c.Sentiment.Scorer = "vibes" }},
		{"news limit above 10", func(c *Config) { c.News.Limit = 11 }},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
