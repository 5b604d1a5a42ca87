package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/newsvec/core"
)

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 15 * time.Second

// SearchOptions controls a single search request.
type SearchOptions struct {
	// Page is the 1-based result page. Values below 1 are treated as page 1.
	Page int

	// TimeRange restricts results by age ("day", "week", "month", "year").
	// Empty means no restriction.
	TimeRange string
}

// Client queries a SearXNG instance's JSON search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	language   string
	categories string
	logger     *slog.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLanguage sets the search language parameter.
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		c.language = lang
	}
}

// NewClient creates a client for the SearXNG instance at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		language:   "en-US",
		categories: "news",
		logger:     slog.Default().With("component", "searxng-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// searchResponse is the subset of the SearXNG JSON payload we consume.
type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// Search runs one query against the news category and returns the decoded
// hits. Each hit keeps its raw JSON so the exact engine payload survives
// into storage. Individual results that fail to decode are skipped.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]*core.SearchHit, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("categories", c.categories)
	params.Set("format", "json")
	params.Set("language", c.language)
	params.Set("pageno", fmt.Sprintf("%d", page))
	if opts.TimeRange != "" {
		params.Set("time_range", opts.TimeRange)
	}

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrSearchFailed, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSearchFailed, err)
	}

	hits := make([]*core.SearchHit, 0, len(payload.Results))
	for _, raw := range payload.Results {
		hit, err := decodeHit(raw)
		if err != nil {
			c.logger.Warn("skipping undecodable search result", "err", err)
			continue
		}
		hits = append(hits, hit)
	}

	c.logger.Debug("search completed", "query", query, "page", page, "hits", len(hits))
	return hits, nil
}
