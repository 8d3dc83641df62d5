package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"stock_dashboard/pkg/core/table"
	"stock_dashboard/pkg/models"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultAlphaVantageURL is the Alpha Vantage query endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

// ErrNoAPIKey is returned when no Alpha Vantage key is configured.
var ErrNoAPIKey = errors.New("ALPHAVANTAGE_NO_KEY: API key not configured")

// Leading fields of every annual report, in display order. Together they are
// the two non-data rows of the transposed statement.
const (
	fieldFiscalDate = "fiscalDateEnding"
	fieldCurrency   = "reportedCurrency"
)

var statementFunctions = map[models.StatementKind]string{
	models.BalanceSheet:    "BALANCE_SHEET",
	models.IncomeStatement: "INCOME_STATEMENT",
	models.CashFlow:        "CASH_FLOW",
}

// providerNotes are the top-level keys Alpha Vantage uses to report throttling
// and bad requests inside a 200 response.
var providerNotes = []struct {
	path string
	tag  string
}{
	{"$.Note", "ALPHAVANTAGE_RATE_LIMIT"},
	{"$.Information", "ALPHAVANTAGE_INFO"},
	{`$["Error Message"]`, "ALPHAVANTAGE_ERROR"},
}

// AnnualStatement is one statement as delivered by the provider: one row per
// fiscal year, one column per field.
type AnnualStatement struct {
	Kind     models.StatementKind `json:"kind"`
	Currency string               `json:"currency"`
	Table    *table.Table         `json:"table"`
}

// AlphaVantage fetches annual statements.
type AlphaVantage struct {
	BaseURL string
	apiKey  string
	http    httpGetter
}

// NewAlphaVantage creates a fundamentals client.
func NewAlphaVantage(baseURL, apiKey string, client *http.Client, userAgent string) *AlphaVantage {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	return &AlphaVantage{
		BaseURL: baseURL,
		apiKey:  apiKey,
		http:    newHTTPGetter(client, userAgent),
	}
}

// HasKey reports whether an API key is configured.
func (a *AlphaVantage) HasKey() bool {
	return strings.TrimSpace(a.apiKey) != ""
}

// FetchAnnual downloads the annual reports of one statement.
func (a *AlphaVantage) FetchAnnual(ctx context.Context, kind models.StatementKind, ticker string) (*AnnualStatement, error) {
	if !a.HasKey() {
		return nil, ErrNoAPIKey
	}
	function, ok := statementFunctions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}

	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", ticker)
	q.Set("apikey", a.apiKey)

	fmt.Printf("[FUNDAMENTALS] Fetching %s for %s\n", function, ticker)
	body, status, err := a.http.get(ctx, a.BaseURL+"?"+q.Encode(), "application/json")
	if err != nil {
		return nil, fmt.Errorf("alpha vantage %s: %w", function, err)
	}
	if status == http.StatusTooManyRequests {
		return nil, fmt.Errorf("ALPHAVANTAGE_RATE_LIMIT: status 429")
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("ALPHAVANTAGE_API_ERROR: status %d", status)
	}

	if err := checkProviderNote(body); err != nil {
		return nil, err
	}

	t, err := parseAnnualReports(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", function, err)
	}
	if t.Empty() {
		return nil, fmt.Errorf("ALPHAVANTAGE_EMPTY: no annual reports for %s", ticker)
	}

	st := &AnnualStatement{Kind: kind, Table: t}
	if cur, err := t.Column(fieldCurrency); err == nil && len(cur) > 0 {
		st.Currency = cur[0]
	}
	return st, nil
}

// checkProviderNote turns Alpha Vantage's in-band error messages into errors.
func checkProviderNote(body []byte) error {
	var obj interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return fmt.Errorf("ALPHAVANTAGE_API_ERROR: invalid JSON: %w", err)
	}
	for _, n := range providerNotes {
		v, err := jsonpath.Get(n.path, obj)
		if err != nil {
			continue
		}
		if msg, ok := v.(string); ok && msg != "" {
			return fmt.Errorf("%s: %s", n.tag, msg)
		}
	}
	return nil
}

// parseAnnualReports builds the provider table from the annualReports array.
// Field order is kept as delivered, except that the fiscal date and the
// currency always come first.
func parseAnnualReports(body []byte) (*table.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var reports [][][2]string
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key != "annualReports" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		if reports, err = decodeReports(dec); err != nil {
			return nil, err
		}
	}

	columns := []string{fieldFiscalDate, fieldCurrency}
	seen := map[string]bool{fieldFiscalDate: true, fieldCurrency: true}
	for _, r := range reports {
		for _, kv := range r {
			if !seen[kv[0]] {
				seen[kv[0]] = true
				columns = append(columns, kv[0])
			}
		}
	}

	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	t := table.New(columns, nil)
	for _, r := range reports {
		row := make([]string, len(columns))
		for _, kv := range r {
			row[idx[kv[0]]] = kv[1]
		}
		t.AppendRow(row)
	}
	return t, nil
}

// decodeReports reads an array of flat objects as ordered key/value pairs.
func decodeReports(dec *json.Decoder) ([][][2]string, error) {
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var reports [][][2]string
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		var fields [][2]string
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			fields = append(fields, [2]string{fmt.Sprint(key), cellText(raw)})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		reports = append(reports, fields)
	}
	_, err := dec.Token()
	return reports, err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("unexpected end of response")
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// cellText renders a JSON scalar as a table cell. Alpha Vantage sends numbers
// as strings and missing values as "None".
func cellText(raw json.RawMessage) string {
	if string(raw) == "null" {
		return "None"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
