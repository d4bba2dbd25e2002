package modellinks

import (
	"context"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/problem"
)

// Model proposes practice links for problem phrases.
type Model interface {
	ResolveLinks(ctx context.Context, phrases []string) ([]link.Picked, error)
}

// Catalog resolves canonical problem titles.
type Catalog interface {
	ByURL(rawURL string) (problem.Entry, bool)
	Canonical(title string) (problem.Entry, bool)
}
