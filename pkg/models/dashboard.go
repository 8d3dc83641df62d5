package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/guregu/null/v6"
)

// Price column names, as shown in the price table.
const (
	ColumnAdjClose  = "Adj Close"
	ColumnClose     = "Close"
	ColumnPctChange = "% Change"
)

// PriceBar is one trading day of the price series.
// Provider gaps are kept as invalid (null) values.
type PriceBar struct {
	Date      time.Time  `json:"date"`
	Open      null.Float `json:"open"`
	High      null.Float `json:"high"`
	Low       null.Float `json:"low"`
	Close     null.Float `json:"close"`
	AdjClose  null.Float `json:"adj_close"`
	Volume    null.Int   `json:"volume"`
	PctChange null.Float `json:"pct_change"` // derived, null for the first row
}

// PriceSeries is the daily price history for one ticker, oldest first.
type PriceSeries struct {
	Ticker   string     `json:"ticker"`
	Currency string     `json:"currency,omitempty"`
	Bars     []PriceBar `json:"bars"`
}

// Empty reports whether the series has no rows.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Bars) == 0
}

// HasColumn reports whether at least one bar carries a value in the named
// price column.
func (s *PriceSeries) HasColumn(name string) bool {
	if s == nil {
		return false
	}
	for _, b := range s.Bars {
		if v, ok := b.value(name); ok && v.Valid {
			return true
		}
	}
	return false
}

// Column returns the named price column as floats, NaN where missing.
func (s *PriceSeries) Column(name string) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		v, ok := b.value(name)
		if !ok || !v.Valid {
			out[i] = math.NaN()
			continue
		}
		out[i] = v.Float64
	}
	return out
}

func (b PriceBar) value(name string) (null.Float, bool) {
	switch name {
	case ColumnAdjClose:
		return b.AdjClose, true
	case ColumnClose:
		return b.Close, true
	case "Open":
		return b.Open, true
	case "High":
		return b.High, true
	case "Low":
		return b.Low, true
	}
	return null.Float{}, false
}

// ReturnStats holds the annualized statistics of the percent change column.
// Any field may be NaN or infinite when the series is too short or flat.
type ReturnStats struct {
	AnnualReturn  float64 `json:"annual_return"`   // percent
	StdDev        float64 `json:"std_dev"`         // fraction, annualized
	RiskAdjReturn float64 `json:"risk_adj_return"` // AnnualReturn / (StdDev*100)
	Observations  int     `json:"observations"`    // defined percent changes
}

// MarshalJSON writes non-finite statistics as null.
func (r ReturnStats) MarshalJSON() ([]byte, error) {
	finite := func(v float64) null.Float {
		return null.NewFloat(v, !math.IsNaN(v) && !math.IsInf(v, 0))
	}
	return json.Marshal(struct {
		AnnualReturn  null.Float `json:"annual_return"`
		StdDev        null.Float `json:"std_dev"`
		RiskAdjReturn null.Float `json:"risk_adj_return"`
		Observations  int        `json:"observations"`
	}{finite(r.AnnualReturn), finite(r.StdDev), finite(r.RiskAdjReturn), r.Observations})
}

// StatementKind identifies one of the three annual financial statements.
type StatementKind string

const (
	BalanceSheet    StatementKind = "balance_sheet"
	IncomeStatement StatementKind = "income_statement"
	CashFlow        StatementKind = "cash_flow"
)

// StatementKinds lists the statements in display order.
var StatementKinds = []StatementKind{BalanceSheet, IncomeStatement, CashFlow}

// Title is the section heading of the statement.
func (k StatementKind) Title() string {
	switch k {
	case BalanceSheet:
		return "Balance Sheet"
	case IncomeStatement:
		return "Income Statement"
	case CashFlow:
		return "Cash Flow Statement"
	}
	return string(k)
}

// Statement is an annual statement reshaped for display: one row per line
// item, one column per fiscal year.
type Statement struct {
	Kind     StatementKind `json:"kind"`
	Title    string        `json:"title"`
	Currency string        `json:"currency,omitempty"`
	Columns  []string      `json:"columns"`
	Rows     [][]string    `json:"rows"`
}

// Empty reports whether the statement has no line items.
func (s Statement) Empty() bool { return len(s.Rows) == 0 }

// NewsItem is one RSS entry with its sentiment scores in [-1, 1].
type NewsItem struct {
	Published        time.Time `json:"published"`
	PublishedRaw     string    `json:"published_raw"`
	Title            string    `json:"title"`
	Summary          string    `json:"summary"`
	Link             string    `json:"link,omitempty"`
	TitleSentiment   float64   `json:"title_sentiment"`
	SummarySentiment float64   `json:"summary_sentiment"`
}

// Dashboard tabs.
const (
	TabPricing      = "pricing"
	TabFundamentals = "fundamentals"
	TabNews         = "news"
	TabInput        = "input"
)

// Notice levels.
const (
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notice is a user-visible message attached to a tab.
type Notice struct {
	Tab     string `json:"tab"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Request is the sidebar input of one render.
type Request struct {
	Ticker string    `json:"ticker"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Page is everything one render displays.
type Page struct {
	RequestID   string       `json:"request_id"`
	RenderedAt  time.Time    `json:"rendered_at"`
	Request     Request      `json:"request"`
	PriceColumn string       `json:"price_column,omitempty"`
	Prices      *PriceSeries `json:"prices,omitempty"`
	Stats       *ReturnStats `json:"stats,omitempty"`
	Statements  []Statement  `json:"statements,omitempty"`
	News        []NewsItem   `json:"news,omitempty"`
	Notices     []Notice     `json:"notices,omitempty"`
}

// Notify appends a notice.
func (p *Page) Notify(tab, level, message string) {
	p.Notices = append(p.Notices, Notice{Tab: tab, Level: level, Message: message})
}

// NoticesFor returns the notices of one tab.
func (p *Page) NoticesFor(tab string) []Notice {
	var out []Notice
	for _, n := range p.Notices {
		if n.Tab == tab {
			out = append(out, n)
		}
	}
	return out
}
