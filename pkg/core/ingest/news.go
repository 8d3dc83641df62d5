package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stock_dashboard/pkg/core/utils"
	"stock_dashboard/pkg/models"
)

// DefaultNewsURL is the Yahoo Finance headline feed.
const DefaultNewsURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

// YahooNews reads the per-ticker headline RSS feed.
type YahooNews struct {
	BaseURL string
	http    httpGetter
}

// NewYahooNews creates a news client.
func NewYahooNews(baseURL string, client *http.Client, userAgent string) *YahooNews {
	if baseURL == "" {
		baseURL = DefaultNewsURL
	}
	return &YahooNews{BaseURL: baseURL, http: newHTTPGetter(client, userAgent)}
}

// FetchNews returns the feed items newest first with HTML removed from the
// summaries. Sentiment fields are left zero.
func (y *YahooNews) FetchNews(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	q := url.Values{}
	q.Set("s", ticker)
	q.Set("region", "US")
	q.Set("lang", "en-US")

	fmt.Printf("[NEWS] Fetching feed for %s\n", ticker)
	body, status, err := y.http.get(ctx, y.BaseURL+"?"+q.Encode(), "application/rss+xml, application/xml")
	if err != nil {
		return nil, fmt.Errorf("news feed %s: %w", ticker, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("news feed %s: status %d", ticker, status)
	}
	return parseFeed(body)
}

func parseFeed(data []byte) ([]models.NewsItem, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse RSS: %w", err)
	}

	items := make([]models.NewsItem, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			link = strings.TrimSpace(it.GUID)
		}
		items = append(items, models.NewsItem{
			Published:    parsePubDate(it.PubDate),
			PublishedRaw: strings.TrimSpace(it.PubDate),
			Title:        utils.HTMLToText(it.Title),
			Summary:      utils.HTMLToText(it.Description),
			Link:         link,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	return items, nil
}

// parsePubDate returns the zero time for dates in no known layout.
func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
