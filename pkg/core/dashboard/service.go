// Package dashboard runs one render of the stock dashboard: read the inputs,
// fetch prices, compute return statistics, fetch the three annual statements,
// fetch and score the news.
//
// Only the fundamentals fetch is guarded. Any fundamentals failure becomes
// one static notice; price and news failures abort the render.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"stock_dashboard/pkg/core/calc"
	"stock_dashboard/pkg/core/ingest"
	"stock_dashboard/pkg/core/sentiment"
	"stock_dashboard/pkg/core/table"
	"stock_dashboard/pkg/models"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// User-visible messages.
const (
	MsgInvalidTicker   = "Please enter a valid ticker symbol."
	MsgInvalidRange    = "Start date must not be after end date."
	MsgNoData          = "No data found. Please check the ticker symbol and date range."
	MsgNoPriceColumn   = "No price data found for the selected stock."
	MsgNoAPIKey        = "Alpha Vantage API key is not configured."
	MsgFundamentalsErr = "Could not fetch fundamental data. Please try again later."
	MsgNoNews          = "No news found for this ticker."
)

// DefaultNewsLimit is the number of news items shown.
const DefaultNewsLimit = 10

var (
	ErrPriceFetch = errors.New("price fetch failed")
	ErrNewsFetch  = errors.New("news fetch failed")
)

// Service builds dashboard pages. It is safe for concurrent use when its
// sources and scorer are.
type Service struct {
	prices    ingest.PriceSource
	funds     ingest.StatementSource
	news      ingest.NewsSource
	scorer    sentiment.Scorer
	newsLimit int
	now       func() time.Time
}

// NewService wires the sources. A nil scorer uses the lexicon scorer;
// newsLimit <= 0 uses DefaultNewsLimit.
func NewService(prices ingest.PriceSource, funds ingest.StatementSource, news ingest.NewsSource, scorer sentiment.Scorer, newsLimit int) *Service {
	if scorer == nil {
		scorer = sentiment.LexiconScorer{}
	}
	if newsLimit <= 0 {
		newsLimit = DefaultNewsLimit
	}
	return &Service{
		prices:    prices,
		funds:     funds,
		news:      news,
		scorer:    scorer,
		newsLimit: newsLimit,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for default dates and stamps.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Build renders one page. The returned error wraps ErrPriceFetch or
// ErrNewsFetch; every other problem is reported as a notice on the page.
func (s *Service) Build(ctx context.Context, req models.Request) (*models.Page, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.Start.IsZero() {
		req.Start = today
	}
	if req.End.IsZero() {
		req.End = today
	}

	page := &models.Page{
		RequestID:  uuid.New().String(),
		RenderedAt: now,
		Request:    req,
	}

	if req.Ticker == "" {
		page.Notify(models.TabInput, models.LevelWarning, MsgInvalidTicker)
		return page, nil
	}
	if req.Start.After(req.End) {
		page.Notify(models.TabInput, models.LevelWarning, MsgInvalidRange)
		return page, nil
	}

	if err := s.pricing(ctx, page); err != nil {
		return nil, err
	}
	s.fundamentals(ctx, page)
	if err := s.headlines(ctx, page); err != nil {
		return nil, err
	}

	fmt.Printf("[DASHBOARD] %s rendered %s (%d notices)\n", page.RequestID, req.Ticker, len(page.Notices))
	return page, nil
}

func (s *Service) pricing(ctx context.Context, page *models.Page) error {
	req := page.Request
	series, err := s.prices.FetchHistory(ctx, req.Ticker, req.Start, req.End)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPriceFetch, err)
	}
	if series.Empty() {
		page.Notify(models.TabPricing, models.LevelError, MsgNoData)
		return nil
	}

	// the fetched series may be shared with the cache
	own := &models.PriceSeries{
		Ticker:   series.Ticker,
		Currency: series.Currency,
		Bars:     append([]models.PriceBar(nil), series.Bars...),
	}
	page.Prices = own

	column := ChoosePriceColumn(own)
	if column == "" {
		page.Notify(models.TabPricing, models.LevelError, MsgNoPriceColumn)
		return nil
	}
	page.PriceColumn = column

	prices := own.Column(column)
	pc := calc.PercentChange(prices)
	for i := range own.Bars {
		own.Bars[i].PctChange = null.NewFloat(pc[i], !math.IsNaN(pc[i]) && !math.IsInf(pc[i], 0))
	}
	stats := calc.ComputeReturnStats(prices)
	page.Stats = &stats
	return nil
}

// ChoosePriceColumn prefers the adjusted close and falls back to the close.
// It returns "" when the series has neither.
func ChoosePriceColumn(series *models.PriceSeries) string {
	switch {
	case series.HasColumn(models.ColumnAdjClose):
		return models.ColumnAdjClose
	case series.HasColumn(models.ColumnClose):
		return models.ColumnClose
	}
	return ""
}

func (s *Service) fundamentals(ctx context.Context, page *models.Page) {
	if !s.funds.HasKey() {
		page.Notify(models.TabFundamentals, models.LevelError, MsgNoAPIKey)
		return
	}

	for _, kind := range models.StatementKinds {
		st, err := s.funds.FetchAnnual(ctx, kind, page.Request.Ticker)
		if err != nil {
			fmt.Printf("[FUNDAMENTALS] %s %s failed: %v\n", page.Request.Ticker, kind, err)
			page.Notify(models.TabFundamentals, models.LevelError, MsgFundamentalsErr)
			return
		}
		t := table.ReshapeStatement(st.Table)
		page.Statements = append(page.Statements, models.Statement{
			Kind:     kind,
			Title:    kind.Title(),
			Currency: st.Currency,
			Columns:  t.Columns,
			Rows:     t.Rows,
		})
	}
}

func (s *Service) headlines(ctx context.Context, page *models.Page) error {
	items, err := s.news.FetchNews(ctx, page.Request.Ticker)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNewsFetch, err)
	}

	n := min(s.newsLimit, len(items))
	if n == 0 {
		page.Notify(models.TabNews, models.LevelWarning, MsgNoNews)
		return nil
	}

	page.News = make([]models.NewsItem, n)
	copy(page.News, items[:n])
	for i := range page.News {
		item := &page.News[i]
		item.TitleSentiment = s.score(ctx, item.Title)
		item.SummarySentiment = s.score(ctx, item.Summary)
	}
	return nil
}

func (s *Service) score(ctx context.Context, text string) float64 {
	p, err := s.scorer.Score(ctx, text)
	if err != nil {
		fmt.Printf("[SENTIMENT] scoring failed: %v\n", err)
		return 0
	}
	return p
}
