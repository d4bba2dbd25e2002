package linksearch

import (
	"context"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
)

// Searcher runs one web search restricted to the given domains.
type Searcher interface {
	Search(ctx context.Context, query string, domains []string, limit int) ([]link.Candidate, error)
}

// Prober checks that a link resolves.
type Prober interface {
	HeadOK(ctx context.Context, rawURL string) bool
}
