// Package modellinks asks the generative backend for practice links and keeps only well-formed ones.
package modellinks

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/usecase/tolerant"
)

const defaultTitle = "Practice"

// Resolver is the last-resort link tier.
type Resolver struct {
	model   Model
	catalog Catalog
	timeout time.Duration
}

// New creates a resolver. A nil model disables the tier; catalog may be nil.
func New(model Model, catalog Catalog, timeout time.Duration) *Resolver {
	return &Resolver{model: model, catalog: catalog, timeout: timeout}
}

// Resolve returns validated links for the phrases. Empty input makes no call.
// Any failure yields an empty result.
func (r *Resolver) Resolve(ctx context.Context, phrases []string) []link.Picked {
	if r.model == nil {
		return nil
	}
	phrases = nonBlank(phrases)
	if len(phrases) == 0 {
		return nil
	}

	proposed := tolerant.Call(ctx, "model_links", r.timeout, func(ctx context.Context) ([]link.Picked, error) {
		return r.model.ResolveLinks(ctx, phrases)
	})

	out := link.NewSet(len(proposed))
	for _, p := range proposed {
		u := strings.TrimSpace(p.URL)
		if !link.IsPracticeURL(u) {
			logger.FromContext(ctx).Debug("Dropping model link", zap.String("url", u))
			continue
		}
		out.Add(link.Picked{
			Title: r.title(p.Title, u),
			URL:   u,
			Site:  link.SiteFromURL(u),
		})
	}
	return out.Links()
}

// title prefers the catalog title for a known URL, then a fuzzy catalog match
// whose link has the same site and slug, then the model title.
func (r *Resolver) title(proposed, rawURL string) string {
	proposed = strings.TrimSpace(proposed)
	if r.catalog != nil {
		if e, ok := r.catalog.ByURL(rawURL); ok {
			return e.Title
		}
		if e, ok := r.catalog.Canonical(proposed); ok && sameProblem(e.URL(), rawURL) {
			return e.Title
		}
	}
	if proposed == "" {
		return defaultTitle
	}
	return proposed
}

func sameProblem(a, b string) bool {
	return link.SiteFromURL(a) == link.SiteFromURL(b) && slug(a) != "" && slug(a) == slug(b)
}

func slug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	s := path.Base(strings.TrimRight(u.Path, "/"))
	if s == "." || s == "/" {
		return ""
	}
	return strings.ToLower(s)
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
