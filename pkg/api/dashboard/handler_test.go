package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	coreDashboard "stock_dashboard/pkg/core/dashboard"
	"stock_dashboard/pkg/models"

	"github.com/guregu/null/v6"
)

type fakeBuilder struct {
	got models.Request
	err error
}

func (f *fakeBuilder) Build(ctx context.Context, req models.Request) (*models.Page, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	p := &models.Page{RequestID: "req-1", Request: req}
	if req.Ticker == "" {
		p.Notify(models.TabInput, models.LevelWarning, coreDashboard.MsgInvalidTicker)
		return p, nil
	}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	p.PriceColumn = models.ColumnAdjClose
	p.Prices = &models.PriceSeries{Ticker: req.Ticker, Bars: []models.PriceBar{
		{Date: day, Close: null.FloatFrom(100), AdjClose: null.FloatFrom(100)},
		{Date: day.AddDate(0, 0, 1), Close: null.FloatFrom(110), AdjClose: null.FloatFrom(110), PctChange: null.FloatFrom(0.1)},
	}}
	p.Stats = &models.ReturnStats{AnnualReturn: 2520, StdDev: 0, RiskAdjReturn: 0, Observations: 1}
	p.Statements = []models.Statement{{
		Kind: models.CashFlow, Title: models.CashFlow.Title(), Currency: "USD",
		Columns: []string{"fiscalDateEnding", "2023-12-31"},
		Rows:    [][]string{{"operatingCashflow", "500"}},
	}}
	p.News = []models.NewsItem{{Title: "Apple <beats>", PublishedRaw: "Tue, 02 Jan 2024", TitleSentiment: 0.5}}
	return p, nil
}

type fakeCache struct{ cleared int }

func (f *fakeCache) Clear(ctx context.Context) error {
	f.cleared++
	return nil
}

func TestParseRequest(t *testing.T) {
	testCases := []struct {
		query   string
		ticker  string
		start   string
		wantErr bool
	}{
		{"", DefaultTicker, "0001-01-01", false},
		{"ticker=", "", "0001-01-01", false},
		{"ticker=msft&start=2024-01-31", "msft", "2024-01-31", false},
		{"start=01/31/2024", "", "", true},
	}
	for _, tc := range testCases {
		r := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		req, err := parseRequest(r)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.query)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.query, err)
		}
		if req.Ticker != tc.ticker {
			t.Errorf("%q: expected ticker %q, got %q", tc.query, tc.ticker, req.Ticker)
		}
		if req.Start.Format("2006-01-02") != tc.start {
			t.Errorf("%q: expected start %s, got %s", tc.query, tc.start, req.Start.Format("2006-01-02"))
		}
	}
}

func TestHandleIndex(t *testing.T) {
	h := NewHandler(&fakeBuilder{}, nil)
	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest(http.MethodGet, "/?ticker=AAPL&start=2024-01-01&end=2024-02-01", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{
		"Pricing Data", "Fundamental Data", "Top 10 News",
		"Annual Return: 2520.00%",
		"Cash Flow Statement",
		"$500.00",
		"Apple &lt;beats&gt;",
		"Plotly.newPlot",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestHandleIndex_EmptyTickerWarning(t *testing.T) {
	h := NewHandler(&fakeBuilder{}, nil)
	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest(http.MethodGet, "/?ticker=", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), coreDashboard.MsgInvalidTicker) {
		t.Error("expected invalid ticker warning")
	}
	if strings.Contains(w.Body.String(), "Plotly.newPlot") {
		t.Error("expected no chart without a ticker")
	}
}

func TestHandleIndex_UnknownPath(t *testing.T) {
	h := NewHandler(&fakeBuilder{}, nil)
	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleDashboard_JSON(t *testing.T) {
	h := NewHandler(&fakeBuilder{}, nil)
	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/api/dashboard?ticker=AAPL", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var page struct {
		RequestID string `json:"request_id"`
		Stats     struct {
			AnnualReturn  *float64 `json:"annual_return"`
			RiskAdjReturn *float64 `json:"risk_adj_return"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if page.RequestID != "req-1" {
		t.Errorf("expected req-1, got %s", page.RequestID)
	}
	if page.Stats.AnnualReturn == nil || *page.Stats.AnnualReturn != 2520 {
		t.Errorf("expected annual return 2520, got %v", page.Stats.AnnualReturn)
	}
}

func TestHandleDashboard_FetchErrors(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: timeout", coreDashboard.ErrPriceFetch), http.StatusBadGateway},
		{fmt.Errorf("%w: 503", coreDashboard.ErrNewsFetch), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		h := NewHandler(&fakeBuilder{err: tc.err}, nil)
		w := httptest.NewRecorder()
		h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/api/dashboard?ticker=AAPL", nil))
		if w.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}

func TestHandleDashboard_BadDate(t *testing.T) {
	b := &fakeBuilder{}
	h := NewHandler(b, nil)
	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/api/dashboard?end=tomorrow", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleReport(t *testing.T) {
	h := NewHandler(&fakeBuilder{}, nil)

	w := httptest.NewRecorder()
	h.HandleReport(w, httptest.NewRequest(http.MethodGet, "/api/report?ticker=AAPL", nil))
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown") {
		t.Errorf("expected markdown content type, got %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "# AAPL Stock Dashboard") {
		t.Errorf("expected markdown heading, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	h.HandleReport(w, httptest.NewRequest(http.MethodGet, "/api/report?ticker=AAPL&format=html", nil))
	if !strings.Contains(w.Body.String(), "<h1>AAPL Stock Dashboard</h1>") {
		t.Errorf("expected html heading, got %s", w.Body.String())
	}
}

func TestHandleClearCache(t *testing.T) {
	cache := &fakeCache{}
	h := NewHandler(&fakeBuilder{}, cache)

	w := httptest.NewRecorder()
	h.HandleClearCache(w, httptest.NewRequest(http.MethodGet, "/api/cache/clear", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.HandleClearCache(w, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))
	if w.Code != http.StatusOK || cache.cleared != 1 {
		t.Errorf("expected cache cleared once, got status %d, cleared %d", w.Code, cache.cleared)
	}
}

func TestHandleHealth(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Body.String() != "ok" {
		t.Errorf("expected ok, got %q", w.Body.String())
	}
}
