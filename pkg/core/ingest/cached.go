package ingest

import (
	"context"
	"time"

	"stock_dashboard/pkg/core/store"
	"stock_dashboard/pkg/models"
)

// PriceSource returns daily bars for [start, end).
type PriceSource interface {
	FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*models.PriceSeries, error)
}

// StatementSource returns one annual statement.
type StatementSource interface {
	HasKey() bool
	FetchAnnual(ctx context.Context, kind models.StatementKind, ticker string) (*AnnualStatement, error)
}

// NewsSource returns the headline feed of a ticker.
type NewsSource interface {
	FetchNews(ctx context.Context, ticker string) ([]models.NewsItem, error)
}

// TTLs is the lifetime of each cached fetch.
type TTLs struct {
	Prices       time.Duration
	Fundamentals time.Duration
	News         time.Duration
}

// DefaultTTLs: prices 1h, fundamentals 24h, news 15m.
var DefaultTTLs = TTLs{
	Prices:       time.Hour,
	Fundamentals: 24 * time.Hour,
	News:         15 * time.Minute,
}

// Cached memoizes the three sources in one cache. Returned values are shared
// with the cache and must not be modified.
type Cached struct {
	prices PriceSource
	funds  StatementSource
	news   NewsSource
	cache  *store.Cache
	ttl    TTLs
}

// NewCached wraps the sources. A nil cache disables memoization.
func NewCached(prices PriceSource, funds StatementSource, news NewsSource, cache *store.Cache, ttl TTLs) *Cached {
	return &Cached{prices: prices, funds: funds, news: news, cache: cache, ttl: ttl}
}

func (c *Cached) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*models.PriceSeries, error) {
	key := store.Key("ingest.FetchHistory", ticker, start, end)
	return store.Memoize(ctx, c.cache, key, c.ttl.Prices, func(ctx context.Context) (*models.PriceSeries, error) {
		return c.prices.FetchHistory(ctx, ticker, start, end)
	})
}

func (c *Cached) HasKey() bool { return c.funds.HasKey() }

func (c *Cached) FetchAnnual(ctx context.Context, kind models.StatementKind, ticker string) (*AnnualStatement, error) {
	key := store.Key("ingest.FetchAnnual", string(kind), ticker)
	return store.Memoize(ctx, c.cache, key, c.ttl.Fundamentals, func(ctx context.Context) (*AnnualStatement, error) {
		return c.funds.FetchAnnual(ctx, kind, ticker)
	})
}

func (c *Cached) FetchNews(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	key := store.Key("ingest.FetchNews", ticker)
	return store.Memoize(ctx, c.cache, key, c.ttl.News, func(ctx context.Context) ([]models.NewsItem, error) {
		return c.news.FetchNews(ctx, ticker)
	})
}
