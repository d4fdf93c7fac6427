// Package fetcher retrieves candidate articles from the Google News
// RSS search endpoint.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"farofino/internal/model"
)

const endpoint = "https://news.google.com/rss/search"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options localize the Google News search.
type Options struct {
	Lang    string
	Country string
	Ceid    string
}

// Fetcher downloads and parses Google News search results.
type Fetcher struct {
	client  HTTPClient
	opts    Options
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client and locale options.
func New(client HTTPClient, opts Options) *Fetcher {
	if opts.Lang == "" {
		opts.Lang = "pt-BR"
	}
	if opts.Country == "" {
		opts.Country = "BR"
	}
	if opts.Ceid == "" {
		opts.Ceid = "BR:pt-419"
	}
	return &Fetcher{
		client:  client,
		opts:    opts,
		timeout: 20 * time.Second,
	}
}

// SetTimeout overrides the default 20-second request timeout.
func (f *Fetcher) SetTimeout(d time.Duration) {
	f.timeout = d
}

// BuildQuery encodes a keyword set as a Google News search query:
// each keyword quoted to request phrase matching, OR-joined.
func BuildQuery(keywords []string) string {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		quoted = append(quoted, fmt.Sprintf("%q", k))
	}
	return strings.Join(quoted, " OR ")
}

// SearchURL returns the full feed URL for a keyword set.
// tbs=qdr:h asks Google News for results from the last hour only; the
// relevance window downstream is wider, so this just trims the batch.
func (f *Fetcher) SearchURL(keywords []string) string {
	q := url.Values{}
	q.Set("q", BuildQuery(keywords))
	q.Set("hl", f.opts.Lang)
	q.Set("gl", f.opts.Country)
	q.Set("ceid", f.opts.Ceid)
	q.Set("tbs", "qdr:h")
	return endpoint + "?" + q.Encode()
}

// Fetch issues one search request for the keyword set and returns the
// parsed candidate articles in feed order. An empty keyword set
// returns nil without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, keywords []string) ([]model.Article, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.SearchURL(keywords), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "FaroFino/2.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// The RSS-level parser is used instead of the universal one because
	// only it surfaces the <source> element Google News attaches to
	// every item.
	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		a := model.Article{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: item.PubDateParsed,
		}
		if item.Source != nil {
			a.SourceName = item.Source.Title
		}
		articles = append(articles, a)
	}
	return articles, nil
}
