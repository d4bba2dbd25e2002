// Package linksearch turns search phrasings of one problem into verified practice links.
package linksearch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/usecase/tolerant"
)

// Search limits.
const (
	DefaultLimit           = 3
	MaxQueries             = 5
	DefaultResultsPerQuery = 6
	candidateFactor        = 3
)

// Config tunes the finder.
type Config struct {
	AllowList       link.AllowList
	ResultsPerQuery int
	SearchTimeout   time.Duration
}

// Finder gathers, ranks and verifies search candidates.
type Finder struct {
	search   Searcher
	probe    Prober
	allow    link.AllowList
	perQuery int
	timeout  time.Duration
}

// New creates a finder. A nil searcher disables the search tier.
func New(search Searcher, probe Prober, cfg Config) *Finder {
	perQuery := cfg.ResultsPerQuery
	if perQuery <= 0 {
		perQuery = DefaultResultsPerQuery
	}
	return &Finder{
		search:   search,
		probe:    probe,
		allow:    cfg.AllowList,
		perQuery: perQuery,
		timeout:  cfg.SearchTimeout,
	}
}

// Enabled reports whether searches can run.
func (f *Finder) Enabled() bool {
	return f.search != nil && !f.allow.Empty()
}

// Find returns up to limit reachable, allow-listed links for the queries,
// ranked against the first query. It never fails: provider errors yield fewer links.
func (f *Finder) Find(ctx context.Context, queries []string, limit int) []link.Picked {
	if !f.Enabled() {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queries = clean(queries)
	if len(queries) == 0 {
		return nil
	}
	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}

	domains := f.allow.Domains()
	var cands []link.Candidate
	for _, q := range queries {
		hits := tolerant.Call(ctx, "search", f.timeout, func(ctx context.Context) ([]link.Candidate, error) {
			return f.search.Search(ctx, q, domains, f.perQuery)
		})
		for _, h := range hits {
			if f.allow.IsAllowed(h.URL) {
				cands = append(cands, h)
			}
		}
		if len(cands) >= limit*candidateFactor {
			break
		}
	}

	ranked := link.Rank(queries[0], cands)

	out := link.NewSet(limit)
	for _, c := range ranked {
		if out.Has(c.URL) {
			continue
		}
		if !f.probe.HeadOK(ctx, c.URL) {
			logger.FromContext(ctx).Debug("Dropping unreachable candidate", zap.String("url", c.URL))
			continue
		}
		out.Add(link.Picked{
			Title: link.CleanTitle(c.Title),
			URL:   c.URL,
			Site:  link.SiteFromURL(c.URL),
		})
		if out.Full() {
			break
		}
	}
	return out.Links()
}

func clean(queries []string) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
