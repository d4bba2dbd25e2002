package publish

import (
	"context"

	dompost "github.com/kailas-cloud/practicelink/internal/domain/post"
	"github.com/kailas-cloud/practicelink/internal/usecase/enrichment"
)

// Repository defines the storage contract for posts being published.
type Repository interface {
	Get(ctx context.Context, id string) (dompost.Post, error)
	SetStatus(ctx context.Context, id string, status dompost.Status) error
	Publish(ctx context.Context, id string, pub dompost.Publication) error
}

// Formatter asks the generative backend to structure a write-up.
// It returns the model's raw reply.
type Formatter interface {
	FormatPost(ctx context.Context, in dompost.FormatInput) (string, error)
}

// Enricher resolves practice links for a write-up.
type Enricher interface {
	Enrich(ctx context.Context, in enrichment.Input) enrichment.Result
}
