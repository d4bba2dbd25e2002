// Package tavily is a client for the Tavily web search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/metrics"
)

// DefaultBaseURL is the public Tavily endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// Result limits accepted by the API.
const (
	minResults = 1
	maxResults = 10
)

const maxErrorBody = 4 << 10

// Config holds the search client settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Depth      string // basic, advanced
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls POST {base}/search.
type Client struct {
	apiKey  string
	baseURL string
	depth   string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a search client. An empty APIKey yields a client whose
// Search always fails with domain.ErrSearchNotConfigured.
func NewClient(cfg *Config) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		depth:   cfg.Depth,
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.depth == "" {
		c.depth = "basic"
	}
	if c.timeout <= 0 {
		c.timeout = 8 * time.Second
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	rps, burst := cfg.RatePerSec, cfg.Burst
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

type searchRequest struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	IncludeDomains    []string `json:"include_domains"`
	MaxResults        int      `json:"max_results"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search queries the provider restricted to domains. limit is clamped to 1..10.
func (c *Client) Search(ctx context.Context, query string, domains []string, limit int) ([]link.Candidate, error) {
	if !c.Configured() {
		return nil, domain.ErrSearchNotConfigured
	}

	body, err := json.Marshal(searchRequest{
		Query:          query,
		SearchDepth:    c.depth,
		IncludeDomains: nonNil(domains),
		MaxResults:     clamp(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("throttled").Inc()
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.SearchRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search request failed: %w: %w", domain.ErrSearchProviderError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, parseAPIError(resp)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode search response: %w: %w", domain.ErrSearchProviderError, err)
	}
	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()

	out := make([]link.Candidate, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		out = append(out, link.Candidate{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}

	c.logger.Debug("Search completed",
		zap.String("query", query),
		zap.Int("results", len(out)),
	)
	return out, nil
}

// parseAPIError maps a non-200 response to a domain error.
// 429 wraps domain.ErrRateLimited; everything else wraps domain.ErrSearchProviderError.
func parseAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := extractDetail(raw)
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}

	wrap := domain.ErrSearchProviderError
	if resp.StatusCode == http.StatusTooManyRequests {
		wrap = domain.ErrRateLimited
	}
	if detail == "" {
		return fmt.Errorf("search API error %d: %w", resp.StatusCode, wrap)
	}
	return fmt.Errorf("search API error %d: %s: %w", resp.StatusCode, detail, wrap)
}

// extractDetail reads the "detail" field, either a string or {"error": "..."}.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) != nil || len(parsed.Detail) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(parsed.Detail, &s) == nil {
		return s
	}
	var obj struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(parsed.Detail, &obj) == nil {
		return obj.Error
	}
	return ""
}

func clamp(n int) int {
	return min(maxResults, max(minResults, n))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
