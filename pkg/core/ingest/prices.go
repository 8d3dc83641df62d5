package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_dashboard/pkg/models"

	"github.com/guregu/null/v6"
)

// DefaultChartURL is the Yahoo Finance chart endpoint.
const DefaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// =============================================================================
// YAHOO CHART RESPONSE
// =============================================================================

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Currency  string `json:"currency"`
		Symbol    string `json:"symbol"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamps []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// =============================================================================
// PRICE CLIENT
// =============================================================================

// YahooPrices downloads daily bars from the Yahoo Finance chart API.
type YahooPrices struct {
	BaseURL string
	http    httpGetter
}

// NewYahooPrices creates a price client. Empty baseURL uses DefaultChartURL.
func NewYahooPrices(baseURL string, client *http.Client, userAgent string) *YahooPrices {
	if baseURL == "" {
		baseURL = DefaultChartURL
	}
	return &YahooPrices{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPGetter(client, userAgent),
	}
}

// FetchHistory returns daily bars for [start, end). An unknown ticker or an
// empty range yields an empty series, not an error.
func (y *YahooPrices) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*models.PriceSeries, error) {
	series := &models.PriceSeries{Ticker: ticker}

	from := dayStart(start)
	to := dayStart(end)
	if !from.Before(to) {
		return series, nil
	}

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", from.Unix()))
	q.Set("period2", fmt.Sprintf("%d", to.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,split")
	u := fmt.Sprintf("%s/%s?%s", y.BaseURL, url.PathEscape(ticker), q.Encode())

	fmt.Printf("[PRICES] Fetching %s %s..%s\n", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
	body, status, err := y.http.get(ctx, u, "application/json")
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo chart %s: status %d", ticker, status)
		}
		return nil, fmt.Errorf("failed to parse yahoo chart response: %w", err)
	}

	if e := resp.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			fmt.Printf("[PRICES] %s not found: %s\n", ticker, e.Description)
			return series, nil
		}
		return nil, fmt.Errorf("yahoo chart %s: %s: %s", ticker, e.Code, e.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart %s: status %d", ticker, status)
	}
	if len(resp.Chart.Result) == 0 {
		return series, nil
	}

	r := resp.Chart.Result[0]
	series.Currency = r.Meta.Currency
	series.Bars = r.bars()
	fmt.Printf("[PRICES] %s: %d bars\n", ticker, len(series.Bars))
	return series, nil
}

// bars zips the parallel indicator arrays into rows, dated in the exchange's
// local calendar.
func (r chartResult) bars() []models.PriceBar {
	loc := time.FixedZone("exchange", r.Meta.GMTOffset)

	bars := make([]models.PriceBar, 0, len(r.Timestamps))
	for i, ts := range r.Timestamps {
		local := time.Unix(ts, 0).In(loc)
		bar := models.PriceBar{
			Date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		}
		if len(r.Indicators.Quote) > 0 {
			q := r.Indicators.Quote[0]
			bar.Open = floatAt(q.Open, i)
			bar.High = floatAt(q.High, i)
			bar.Low = floatAt(q.Low, i)
			bar.Close = floatAt(q.Close, i)
			if i < len(q.Volume) && q.Volume[i] != nil {
				bar.Volume = null.IntFrom(*q.Volume[i])
			}
		}
		if len(r.Indicators.AdjClose) > 0 {
			bar.AdjClose = floatAt(r.Indicators.AdjClose[0].AdjClose, i)
		}
		// rows where the exchange reported nothing at all are holidays
		if !bar.Open.Valid && !bar.Close.Valid && !bar.AdjClose.Valid {
			continue
		}
		bars = append(bars, bar)
	}
	return bars
}

func floatAt(values []*float64, i int) null.Float {
	if i >= len(values) || values[i] == nil {
		return null.Float{}
	}
	return null.FloatFrom(*values[i])
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
