package practicelink

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	searchKey     string
	searchBaseURL string

	llmKey     string
	llmBaseURL string
	llmModel   string

	allowedDomains string
	maxLinks       int
	timeout        time.Duration
	httpClient     *http.Client

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSearch enables the web search tier with a Tavily API key.
func WithSearch(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchKey = apiKey
	})
}

// WithSearchBaseURL overrides the search endpoint. Useful for proxies and tests.
func WithSearchBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchBaseURL = url
	})
}

// WithLLM enables the generative tiers (link fallback and bundle extraction)
// against an OpenAI-compatible endpoint. Empty baseURL and model use the
// Gemini defaults.
func WithLLM(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmKey = apiKey
		c.llmBaseURL = baseURL
		c.llmModel = model
	})
}

// WithAllowedDomains sets the comma-separated host suffixes search results
// must belong to. Default: "leetcode.com,geeksforgeeks.org".
func WithAllowedDomains(csv string) Option {
	return optionFunc(func(c *clientConfig) {
		c.allowedDomains = csv
	})
}

// WithMaxLinks caps the links returned per write-up (1..6). Default: 3.
func WithMaxLinks(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxLinks = n
	})
}

// WithTimeout bounds each outbound search and model call. Default: 20s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient sets the client used for link probes.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
