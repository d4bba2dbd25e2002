package practicelink

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/problem"
	openaiLLM "github.com/kailas-cloud/practicelink/internal/transport/openai"
	"github.com/kailas-cloud/practicelink/internal/transport/probe"
	"github.com/kailas-cloud/practicelink/internal/transport/tavily"
	"github.com/kailas-cloud/practicelink/internal/usecase/enrichment"
	"github.com/kailas-cloud/practicelink/internal/usecase/linksearch"
	"github.com/kailas-cloud/practicelink/internal/usecase/modellinks"
)

// Defaults for the generative tier.
const (
	DefaultLLMBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultLLMModel   = "gemini-1.5-flash"
	defaultTimeout    = 20 * time.Second
	maxMatchLimit     = 10
)

// Internal interfaces for substitution in tests.
type enrichUseCase interface {
	Enrich(ctx context.Context, in enrichment.Input) enrichment.Result
	MaxLinks() int
}

type matchUseCase interface {
	Match(text string, limit int) []link.Match
}

// Client is the practicelink SDK entry point.
type Client struct {
	enrichSvc enrichUseCase
	matcher   matchUseCase
	obs       *observer
}

// New creates a Client. Nothing is dialed until the first Enrich call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		allowedDomains: link.DefaultAllowedDomains,
		maxLinks:       enrichment.DefaultMaxLinks,
		timeout:        defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.maxLinks < 1 || cfg.maxLinks > enrichment.MaxLinksLimit {
		return nil, fmt.Errorf("practicelink: max links must be between 1 and %d: %w",
			enrichment.MaxLinksLimit, domain.ErrInvalidInput)
	}
	allow := link.ParseAllowList(cfg.allowedDomains)
	if allow.Empty() {
		return nil, fmt.Errorf("practicelink: allowed domains must not be empty: %w", domain.ErrInvalidInput)
	}

	catalog, err := problem.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("practicelink: load catalog: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, catalog, allow, obs), nil
}

func wireClient(cfg *clientConfig, catalog *problem.Catalog, allow link.AllowList, obs *observer) *Client {
	logger := zap.NewNop()
	matcher := problem.NewMatcher(catalog)

	// Disabled tiers get nil interfaces, never typed nil pointers.
	var searcher linksearch.Searcher
	if strings.TrimSpace(cfg.searchKey) != "" {
		searcher = tavily.NewClient(&tavily.Config{
			APIKey:  cfg.searchKey,
			BaseURL: cfg.searchBaseURL,
			Timeout: cfg.timeout,
			Logger:  logger,
		})
	}
	finder := linksearch.New(searcher, probe.New(cfg.httpClient, 0, logger), linksearch.Config{
		AllowList:     allow,
		SearchTimeout: cfg.timeout,
	})

	var (
		model     modellinks.Model
		extractor enrichment.Extractor
	)
	if strings.TrimSpace(cfg.llmKey) != "" {
		baseURL, modelName := cfg.llmBaseURL, cfg.llmModel
		if baseURL == "" {
			baseURL = DefaultLLMBaseURL
		}
		if modelName == "" {
			modelName = DefaultLLMModel
		}
		llm := openaiLLM.NewClient(&openaiLLM.Config{
			APIKey:     cfg.llmKey,
			BaseURL:    baseURL,
			Model:      modelName,
			HTTPClient: &http.Client{Timeout: cfg.timeout},
			Logger:     logger,
		})
		model, extractor = llm, llm
	}

	enrichSvc := enrichment.New(matcher, finder, modellinks.New(model, catalog, cfg.timeout), extractor,
		enrichment.Config{
			MaxLinks:       cfg.maxLinks,
			ExtractTimeout: cfg.timeout,
		})

	return &Client{enrichSvc: enrichSvc, matcher: matcher, obs: obs}
}

// MaxLinks returns the effective per-write-up link cap.
func (c *Client) MaxLinks() int {
	return c.enrichSvc.MaxLinks()
}

// Enrich finds practice links for a write-up. Raw or Bundles must be set.
// Tier failures never surface as errors; the result just has fewer links.
func (c *Client) Enrich(ctx context.Context, in EnrichInput) (res EnrichResult, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("enrich", start, err,
			slog.Int("links", len(res.Links)), slog.String("bundle_source", res.BundleSource))
	}()

	if strings.TrimSpace(in.Raw) == "" && len(in.Bundles) == 0 {
		return EnrichResult{}, fmt.Errorf("raw text or bundles required: %w", domain.ErrInvalidInput)
	}
	if err = ctx.Err(); err != nil {
		return EnrichResult{}, fmt.Errorf("enrich: %w", err)
	}

	bundles := make([]bundle.Bundle, 0, len(in.Bundles))
	for _, b := range in.Bundles {
		bundles = append(bundles, bundle.Bundle{Question: b.Question, Queries: b.Queries})
	}

	out := c.enrichSvc.Enrich(ctx, enrichment.Input{
		Raw:       in.Raw,
		Formatted: in.Formatted,
		Bundles:   bundles,
	})

	res = EnrichResult{
		Links:            make([]Link, 0, len(out.Links)),
		PracticeMarkdown: out.PracticeMD,
		Tiers:            make(map[string]string, len(out.Tiers)),
		BundleSource:     out.Source,
	}
	for _, l := range out.Links {
		res.Links = append(res.Links, Link{Title: l.Title, URL: l.URL, Site: Site(l.Site)})
	}
	for u, t := range out.Tiers {
		res.Tiers[u] = string(t)
	}
	c.obs.enriched(res)
	return res, nil
}

// Match runs the curated catalog against text and returns up to limit hits.
// limit must be between 1 and 10.
func (c *Client) Match(ctx context.Context, text string, limit int) (matches []Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match", start, err) }()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text required: %w", domain.ErrInvalidInput)
	}
	if limit < 1 || limit > maxMatchLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", maxMatchLimit, domain.ErrInvalidInput)
	}
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	hits := c.matcher.Match(text, limit)
	matches = make([]Match, 0, len(hits))
	for _, m := range hits {
		matches = append(matches, Match{
			Title: m.Title,
			URL:   m.URL,
			Site:  Site(m.Site),
			Type:  MatchType(m.Type),
			Note:  m.Note,
		})
	}
	return matches, nil
}
