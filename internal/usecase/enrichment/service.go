// Package enrichment resolves the problems mentioned in a write-up to a short list of practice links.
package enrichment

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/problem"
	"github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/metrics"
	"github.com/kailas-cloud/practicelink/internal/usecase/tolerant"
)

// Tier names the stage that produced a link.
type Tier string

// Tiers in cascade order.
const (
	TierCurated Tier = "curated"
	TierSearch  Tier = "search"
	TierModel   Tier = "model"
)

// Bundle sources, in order of preference.
const (
	SourceInput   = "input"
	SourceModel   = "model"
	SourceKeyword = "keyword"
	SourceNone    = "none"
)

// Defaults and limits.
const (
	DefaultMaxLinks   = 3
	MaxLinksLimit     = 6
	DefaultMaxBundles = 8
	DefaultFanout     = 3
	perBundleLinks    = 3
)

// Config tunes the cascade.
type Config struct {
	MaxLinks       int
	MaxBundles     int
	Fanout         int
	ExtractTimeout time.Duration
}

// Input is one enrichment request.
type Input struct {
	Raw       string
	Formatted string
	Bundles   []bundle.Bundle
}

// Result is the enrichment outcome.
type Result struct {
	Links      []link.Picked
	PracticeMD string
	Tiers      map[string]Tier
	Source     string
}

// Service runs the curated, search and model tiers over the problems in a write-up.
type Service struct {
	matcher   Matcher
	finder    Finder
	resolver  Resolver
	extractor Extractor
	cfg       Config
}

// New creates an enrichment service. extractor may be nil.
func New(m Matcher, f Finder, r Resolver, extractor Extractor, cfg Config) *Service {
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = DefaultMaxLinks
	}
	cfg.MaxLinks = min(cfg.MaxLinks, MaxLinksLimit)
	if cfg.MaxBundles <= 0 {
		cfg.MaxBundles = DefaultMaxBundles
	}
	if cfg.Fanout <= 0 {
		cfg.Fanout = DefaultFanout
	}
	return &Service{matcher: m, finder: f, resolver: r, extractor: extractor, cfg: cfg}
}

// MaxLinks returns the configured cap.
func (s *Service) MaxLinks() int { return s.cfg.MaxLinks }

// bundleState is the per-bundle view shared by both passes.
type bundleState struct {
	b        bundle.Bundle
	curated  *link.Match // exact or variation hit
	similar  *link.Match // remembered last-resort hit
	searched []link.Picked
}

// Enrich resolves practice links for the write-up. It never fails; collaborators
// that error or time out contribute nothing.
func (s *Service) Enrich(ctx context.Context, in Input) Result {
	start := time.Now()

	bundles, source := s.bundles(ctx, in)
	bundles = bundle.Normalize(bundles, s.cfg.MaxBundles)
	ctx = logger.With(ctx, zap.String("bundle_source", source), zap.Int("bundles", len(bundles)))

	states := make([]*bundleState, len(bundles))
	for i, b := range bundles {
		st := &bundleState{b: b}
		if m, ok := s.matcher.Best(b.Text()); ok {
			if m.Type == link.Similar {
				st.similar = &m
			} else {
				st.curated = &m
			}
		}
		states[i] = st
	}

	out := link.NewSet(s.cfg.MaxLinks)
	tiers := make(map[string]Tier)
	add := func(p link.Picked, t Tier) bool {
		if !out.Add(p) {
			return false
		}
		tiers[p.URL] = t
		return true
	}

	// Pass 1: one link per distinct problem. Bundles are searched a window at a
	// time so no search runs once the cap is reached.
	for lo := 0; lo < len(states) && !out.Full(); lo += s.cfg.Fanout {
		window := states[lo:min(lo+s.cfg.Fanout, len(states))]
		s.prefetch(ctx, window, out)
		for _, st := range window {
			if out.Full() {
				break
			}
			cands, tier := s.candidates(ctx, st, out)
			for _, c := range cands {
				if add(c, tier) {
					break
				}
			}
		}
	}

	// Pass 2: fill remaining slots with further search results.
	for _, st := range states {
		if out.Full() {
			break
		}
		for _, p := range st.searched {
			add(p, TierSearch)
			if out.Full() {
				break
			}
		}
	}

	if strings.TrimSpace(in.Raw) != "" {
		for _, m := range s.matcher.Match(in.Raw, s.cfg.MaxLinks) {
			add(m.Picked(), TierCurated)
		}
	}

	links := out.Links()
	if links == nil {
		links = []link.Picked{}
	}
	for _, l := range links {
		metrics.TierLinksTotal.WithLabelValues(string(tiers[l.URL])).Inc()
	}
	metrics.EnrichmentDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Info("Enrichment completed",
		zap.Int("links", len(links)),
		zap.Duration("duration", time.Since(start)),
	)

	return Result{
		Links:      links,
		PracticeMD: link.RenderMarkdown(links),
		Tiers:      tiers,
		Source:     source,
	}
}

// candidates returns the pass-1 options for one bundle and the tier they come from.
// A curated link already taken by an earlier bundle yields to the lower tiers.
func (s *Service) candidates(ctx context.Context, st *bundleState, taken *link.Set) ([]link.Picked, Tier) {
	if st.curated != nil && !taken.Has(st.curated.URL) {
		return []link.Picked{st.curated.Picked()}, TierCurated
	}
	if len(st.searched) > 0 {
		return st.searched, TierSearch
	}
	if s.resolver != nil {
		if found := s.resolver.Resolve(ctx, st.b.Phrases()); len(found) > 0 {
			return found, TierModel
		}
	}
	if st.similar != nil {
		return []link.Picked{st.similar.Picked()}, TierCurated
	}
	return nil, ""
}

// prefetch runs the search tier concurrently for the window's bundles that the
// catalog leaves unresolved, including those whose curated link is already taken
// by the set or by an earlier bundle of the window. Results land in each bundle's
// own slot.
func (s *Service) prefetch(ctx context.Context, window []*bundleState, taken *link.Set) {
	if s.finder == nil {
		return
	}
	claimed := make(map[string]struct{}, len(window))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Fanout)
	for _, st := range window {
		if st.curated != nil {
			u := st.curated.URL
			_, dup := claimed[u]
			claimed[u] = struct{}{}
			if !dup && !taken.Has(u) {
				continue
			}
		}
		g.Go(func() error {
			st.searched = s.finder.Find(gctx, st.b.Queries, perBundleLinks)
			return nil
		})
	}
	_ = g.Wait()
}

// bundles picks the first available bundle source.
func (s *Service) bundles(ctx context.Context, in Input) ([]bundle.Bundle, string) {
	if len(in.Bundles) > 0 {
		return in.Bundles, SourceInput
	}
	if s.extractor != nil && strings.TrimSpace(in.Raw+in.Formatted) != "" {
		extracted := tolerant.Call(ctx, "extract_bundles", s.cfg.ExtractTimeout,
			func(ctx context.Context) ([]bundle.Bundle, error) {
				return s.extractor.ExtractBundles(ctx, in.Raw, in.Formatted)
			})
		if len(extracted) > 0 {
			return extracted, SourceModel
		}
	}
	text := strings.TrimSpace(in.Raw + "\n" + in.Formatted)
	if detected := problem.DetectBundles(text); len(detected) > 0 {
		logger.FromContext(ctx).Debug("Using keyword-detected bundles", zap.Int("count", len(detected)))
		return detected, SourceKeyword
	}
	return nil, SourceNone
}
