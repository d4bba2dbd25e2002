package enrichment

import (
	"context"

	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
)

// Matcher finds curated catalog problems in free text.
type Matcher interface {
	// Match lists catalog hits in catalog order.
	Match(text string, limit int) []link.Match
	// Best returns the hit covering the largest share of its phrase.
	Best(text string) (link.Match, bool)
}

// Finder resolves search phrasings to verified links. It never fails.
type Finder interface {
	Find(ctx context.Context, queries []string, limit int) []link.Picked
}

// Resolver asks the generative backend for links. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, phrases []string) []link.Picked
}

// Extractor derives search bundles from a write-up.
type Extractor interface {
	ExtractBundles(ctx context.Context, raw, formatted string) ([]bundle.Bundle, error)
}
