// Package ingest fetches the three dashboard data sources: daily price
// history (Yahoo Finance chart API), annual fundamentals (Alpha Vantage) and
// headline news (Yahoo Finance RSS).
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when a client has none configured. Yahoo rejects
// requests without one.
const DefaultUserAgent = "Mozilla/5.0 (compatible; StockDashboard/1.0)"

// maxBody caps provider responses.
const maxBody = 10 * 1024 * 1024

// =============================================================================
// HTTP
// =============================================================================

// httpGetter is the transport shared by the provider clients.
type httpGetter struct {
	client    *http.Client
	userAgent string
}

func newHTTPGetter(client *http.Client, userAgent string) httpGetter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return httpGetter{client: client, userAgent: userAgent}
}

// get returns the body and status code. Non-2xx statuses are not errors here;
// each provider decides what they mean.
func (g httpGetter) get(ctx context.Context, url, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
