package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/practicelink/internal/db"
	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	dompost "github.com/kailas-cloud/practicelink/internal/domain/post"
)

// store is the consumer interface for posts (ISP).
type store interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements the post repository on PostgreSQL.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a post repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

const insertPost = `
	INSERT INTO posts (id, slug, author_id, company, role, interview_date, degree_level,
		opportunity_type, topics, content_raw, content_formatted, title, links, status,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// Create inserts a new post. CreatedAt and UpdatedAt are set when zero.
func (r *Repo) Create(ctx context.Context, p *dompost.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.Status == "" {
		p.Status = dompost.StatusProcessing
	}

	links, err := marshalLinks(p.Links)
	if err != nil {
		return err
	}
	topics := p.Topics
	if topics == nil {
		topics = []string{}
	}

	_, err = r.store.Exec(ctx, insertPost,
		p.ID, p.Slug, p.AuthorID, p.Company, p.Role, p.InterviewDate, p.DegreeLevel,
		p.OpportunityType, topics, p.ContentRaw, p.ContentFormatted, p.Title, links,
		string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("insert post %s: %w", p.ID, err)}
	}
	return nil
}

const selectPost = `
	SELECT id, slug, author_id, company, role, interview_date, degree_level, opportunity_type,
		topics, content_raw, content_formatted, title, links, status, created_at, updated_at
	FROM posts
	WHERE id = $1`

// Get loads a post by ID. Unknown or malformed IDs return domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (dompost.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return dompost.Post{}, fmt.Errorf("post %q: %w", id, domain.ErrNotFound)
	}

	var (
		p      dompost.Post
		status string
		links  []byte
	)
	err := r.store.QueryRow(ctx, selectPost, id).Scan(
		&p.ID,
		&p.Slug,
		&p.AuthorID,
		&p.Company,
		&p.Role,
		&p.InterviewDate,
		&p.DegreeLevel,
		&p.OpportunityType,
		&p.Topics,
		&p.ContentRaw,
		&p.ContentFormatted,
		&p.Title,
		&links,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dompost.Post{}, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return dompost.Post{}, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("select post %s: %w", id, err)}
	}

	p.Status = dompost.Status(status)
	if len(links) > 0 {
		if err := json.Unmarshal(links, &p.Links); err != nil {
			return dompost.Post{}, fmt.Errorf("unmarshal links of post %s: %w", id, err)
		}
	}
	return p, nil
}

// SetStatus updates only the status column.
func (r *Repo) SetStatus(ctx context.Context, id string, status dompost.Status) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	tag, err := r.store.Exec(ctx,
		`UPDATE posts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), r.now().UTC(),
	)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: fmt.Errorf("set status of post %s: %w", id, err)}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Publish writes the processed fields and marks the post published.
func (r *Repo) Publish(ctx context.Context, id string, pub dompost.Publication) error {
	links, err := marshalLinks(pub.Links)
	if err != nil {
		return err
	}
	tag, err := r.store.Exec(ctx, `
		UPDATE posts
		SET title = $2, content_formatted = $3, links = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		id, pub.Title, pub.ContentFormatted, links, string(dompost.StatusPublished), r.now().UTC(),
	)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: fmt.Errorf("publish post %s: %w", id, err)}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func marshalLinks(links []link.Picked) ([]byte, error) {
	if links == nil {
		links = []link.Picked{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("marshal links: %w", err)
	}
	return data, nil
}
