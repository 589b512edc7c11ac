package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
)

// Environment variables holding the API key and engine ID.
const (
	EnvAPIKey   = "JSON_SEARCH_API_KEY"
	EnvEngineID = "JSON_SEARCH_ENGINE_ID"
)

// MaxResults is the largest page the API returns.
const MaxResults = 10

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("search query cannot be empty")

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Client runs queries against one programmable search engine.
type Client struct {
	svc      *customsearch.Service
	engineID string
	metrics  *instrumentation.Metrics
}

// NewClient creates a search client. Extra options (endpoint, HTTP client)
// are passed to the API service.
func NewClient(ctx context.Context, apiKey, engineID string, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}
	if engineID == "" {
		return nil, fmt.Errorf("search engine ID is required")
	}

	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Custom Search service: %w", err)
	}

	return &Client{svc: svc, engineID: engineID, metrics: metrics}, nil
}

// Search returns up to n results for query. n is clamped to [1, MaxResults].
func (c *Client) Search(ctx context.Context, query string, n int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	n = min(max(n, 1), MaxResults)

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCustomSearch, instrumentation.OperationSearch)
	defer span.End()

	start := time.Now()
	resp, err := c.svc.Cse.List().Q(query).Cx(c.engineID).Num(int64(n)).Context(ctx).Do()
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCustomSearch, instrumentation.OperationSearch,
		instrumentation.StatusFromError(err), time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to fetch search results: %w", err)
	}
	instrumentation.SetSpanSuccess(span)

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return results, nil
}

// Format renders results one per line as "title: snippet".
func Format(results []Result) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.Title + ": " + r.Snippet
	}
	return strings.Join(lines, "\n")
}
