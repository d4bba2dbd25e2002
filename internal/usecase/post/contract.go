package post

import (
	"context"

	dompost "github.com/kailas-cloud/practicelink/internal/domain/post"
)

// Repository defines the storage contract for posts.
type Repository interface {
	Create(ctx context.Context, p *dompost.Post) error
	Get(ctx context.Context, id string) (dompost.Post, error)
}
