package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	configAPI "stock_dashboard/pkg/api/config"
	dashboardAPI "stock_dashboard/pkg/api/dashboard"
	"stock_dashboard/pkg/core/agent"
	"stock_dashboard/pkg/core/config"
	"stock_dashboard/pkg/core/dashboard"
	"stock_dashboard/pkg/core/ingest"
	"stock_dashboard/pkg/core/sentiment"
	"stock_dashboard/pkg/core/store"

	"github.com/joho/godotenv"
)

const purgeInterval = 10 * time.Minute

func main() {
	// Load environment variables
	godotenv.Load()

	path := os.Getenv("DASHBOARD_CONFIG")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cache := store.NewCache(openTier(ctx, cfg))
	go purgeLoop(ctx, cache)

	client := &http.Client{Timeout: cfg.HTTPTimeout()}
	prices := ingest.NewYahooPrices(cfg.Providers.YahooChartURL, client, cfg.HTTP.UserAgent)
	funds := ingest.NewAlphaVantage(cfg.Providers.AlphaVantageURL, cfg.AlphaVantageKey, client, cfg.HTTP.UserAgent)
	news := ingest.NewYahooNews(cfg.Providers.NewsRSSURL, client, cfg.HTTP.UserAgent)
	if !funds.HasKey() {
		fmt.Println("[WARNING] ALPHA_VANTAGE_API_KEY not set, fundamentals tab will show an error")
	}

	pricesTTL, fundamentalsTTL, newsTTL := cfg.TTLs()
	cached := ingest.NewCached(prices, funds, news, cache, ingest.TTLs{
		Prices:       pricesTTL,
		Fundamentals: fundamentalsTTL,
		News:         newsTTL,
	})

	agentMgr := agent.NewManager(cfg.Agents)
	scorer, err := sentiment.New(cfg.Sentiment.Scorer, agentMgr)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SENTIMENT] Using %s scorer\n", cfg.Sentiment.Scorer)

	svc := dashboard.NewService(cached, cached, cached, scorer, cfg.News.Limit)

	dashboardHandler := dashboardAPI.NewHandler(svc, cache)
	http.HandleFunc("/", dashboardHandler.HandleIndex)
	http.HandleFunc("/api/dashboard", dashboardHandler.HandleDashboard)
	http.HandleFunc("/api/report", dashboardHandler.HandleReport)
	http.HandleFunc("/api/cache/clear", dashboardHandler.HandleClearCache)
	http.HandleFunc("/healthz", dashboardAPI.HandleHealth)

	configHandler := configAPI.NewHandler(agentMgr, cfg.Sentiment.Scorer)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	fmt.Printf("[SERVER] Dashboard starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - GET  /")
	fmt.Println("  - GET  /api/dashboard?ticker=&start=&end=")
	fmt.Println("  - GET  /api/report?ticker=&start=&end=[&format=html]")
	fmt.Println("  - POST /api/cache/clear")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

// openTier picks the persistent cache tier: Postgres when DATABASE_URL is
// set and reachable, else files under cache.dir, else none.
func openTier(ctx context.Context, cfg *config.Config) store.Tier {
	if cfg.DatabaseURL != "" {
		tier, err := openPostgres(ctx, cfg.DatabaseURL)
		if err == nil {
			fmt.Println("[CACHE] Using Postgres tier")
			return tier
		}
		fmt.Printf("[WARNING] Postgres cache unavailable, falling back: %v\n", err)
	}
	if cfg.Cache.Dir != "" {
		tier, err := store.NewFileTier(cfg.Cache.Dir)
		if err == nil {
			fmt.Printf("[CACHE] Using file tier at %s\n", tier.Dir())
			return tier
		}
		fmt.Printf("[WARNING] File cache unavailable: %v\n", err)
	}
	fmt.Println("[CACHE] Memory only")
	return nil
}

func openPostgres(ctx context.Context, dbURL string) (*store.PostgresTier, error) {
	pool, err := store.OpenPool(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	tier, err := store.NewPostgresTier(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return tier, nil
}

func purgeLoop(ctx context.Context, cache *store.Cache) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := cache.Purge(ctx); err != nil {
			fmt.Printf("[CACHE] Purge failed: %v\n", err)
		}
	}
}
