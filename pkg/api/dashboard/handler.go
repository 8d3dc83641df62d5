package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	coreDashboard "stock_dashboard/pkg/core/dashboard"
	"stock_dashboard/pkg/core/report"
	"stock_dashboard/pkg/models"

	"github.com/guregu/null/v6"
)

// DefaultTicker prefills the sidebar on the first visit.
const DefaultTicker = "AAPL"

const dateLayout = "2006-01-02"

//go:embed templates/index.html
var templateFS embed.FS

// Builder renders one dashboard page.
type Builder interface {
	Build(ctx context.Context, req models.Request) (*models.Page, error)
}

// CacheClearer drops cached fetches.
type CacheClearer interface {
	Clear(ctx context.Context) error
}

// Handler holds dependencies for dashboard endpoints
type Handler struct {
	Builder Builder
	Cache   CacheClearer
	tmpl    *template.Template
}

// NewHandler creates a new dashboard handler. cache may be nil.
func NewHandler(builder Builder, cache CacheClearer) *Handler {
	tmpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"percent": report.FormatPercent,
		"float":   report.FormatFloat,
		"amount":  report.FormatAmount,
		"times100": func(v float64) float64 {
			return v * 100
		},
		"nf": func(v null.Float) string {
			if !v.Valid {
				return ""
			}
			return fmt.Sprintf("%.2f", v.Float64)
		},
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/index.html"))
	return &Handler{Builder: builder, Cache: cache, tmpl: tmpl}
}

// parseRequest reads ticker, start and end (YYYY-MM-DD) from the query.
// A missing ticker parameter means the prefilled default; an empty one is
// kept empty so the page can warn about it.
func parseRequest(r *http.Request) (models.Request, error) {
	q := r.URL.Query()
	req := models.Request{Ticker: DefaultTicker}
	if _, ok := q["ticker"]; ok {
		req.Ticker = q.Get("ticker")
	}
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"start", &req.Start}, {"end", &req.End}} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return req, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", p.name, v)
		}
		*p.dst = t
	}
	return req, nil
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (*models.Page, bool) {
	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	page, err := h.Builder.Build(r.Context(), req)
	if err != nil {
		fmt.Printf("[ERROR] Render of %q failed: %v\n", req.Ticker, err)
		status := http.StatusInternalServerError
		if errors.Is(err, coreDashboard.ErrPriceFetch) || errors.Is(err, coreDashboard.ErrNewsFetch) {
			status = http.StatusBadGateway
		}
		http.Error(w, err.Error(), status)
		return nil, false
	}
	return page, true
}

// view is the template data of the HTML page.
type view struct {
	Page   *models.Page
	Ticker string
	Start  string
	End    string
	ChartX []string
	ChartY []*float64
}

func newView(p *models.Page) view {
	v := view{
		Page:   p,
		Ticker: p.Request.Ticker,
		Start:  p.Request.Start.Format(dateLayout),
		End:    p.Request.End.Format(dateLayout),
	}
	if p.PriceColumn != "" && !p.Prices.Empty() {
		for i, y := range p.Prices.Column(p.PriceColumn) {
			v.ChartX = append(v.ChartX, p.Prices.Bars[i].Date.Format(dateLayout))
			if math.IsNaN(y) {
				v.ChartY = append(v.ChartY, nil)
				continue
			}
			v.ChartY = append(v.ChartY, &y)
		}
	}
	return v
}

// HandleIndex serves the HTML dashboard.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, ok := h.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, newView(page)); err != nil {
		fmt.Printf("[ERROR] Template execution failed: %v\n", err)
	}
}

// HandleDashboard serves the page as JSON.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	page, ok := h.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		fmt.Printf("[ERROR] Failed to encode page: %v\n", err)
	}
}

// HandleReport serves the page as Markdown, or HTML with format=html.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	page, ok := h.build(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "html" {
		html, err := report.HTML(page)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, report.Markdown(page))
}

// HandleClearCache drops every cached fetch.
func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Cache == nil {
		fmt.Fprint(w, "Cache disabled")
		return
	}
	if err := h.Cache.Clear(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to clear cache: %v", err), http.StatusInternalServerError)
		return
	}
	fmt.Println("[CACHE] Cleared")
	fmt.Fprint(w, "Success: cache cleared")
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}
