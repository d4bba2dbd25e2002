package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dompost "github.com/kailas-cloud/practicelink/internal/domain/post"
)

const slugSuffixLen = 6

// Created identifies a newly stored post.
type Created struct {
	ID   string
	Slug string
}

// StatusView is the public processing state of a post.
type StatusView struct {
	Status dompost.Status
	Slug   string
}

// Service handles write-up submissions.
type Service struct {
	repo  Repository
	newID func() string
}

// New creates a post service.
func New(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// Create validates and stores a submission in the processing state.
func (s *Service) Create(ctx context.Context, authorID string, in dompost.CreateInput) (Created, error) {
	if err := in.Validate(); err != nil {
		return Created{}, err
	}

	var date *time.Time
	if in.InterviewDate != "" {
		d, err := time.Parse(time.DateOnly, in.InterviewDate)
		if err != nil {
			return Created{}, fmt.Errorf("parse interview date: %w", err)
		}
		date = &d
	}

	suffix := strings.ReplaceAll(s.newID(), "-", "")[:slugSuffixLen]
	p := &dompost.Post{
		ID:              s.newID(),
		Slug:            dompost.MakeSlug(in.Company, in.Role, suffix),
		AuthorID:        authorID,
		Company:         strings.TrimSpace(in.Company),
		Role:            strings.TrimSpace(in.Role),
		InterviewDate:   date,
		DegreeLevel:     in.DegreeLevel,
		OpportunityType: in.OpportunityType,
		Topics:          in.Topics,
		ContentRaw:      in.ContentRaw,
		Status:          dompost.StatusProcessing,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Created{}, fmt.Errorf("create post: %w", err)
	}
	return Created{ID: p.ID, Slug: p.Slug}, nil
}

// Status returns the processing state of a post.
func (s *Service) Status(ctx context.Context, id string) (StatusView, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return StatusView{}, fmt.Errorf("get post: %w", err)
	}
	return StatusView{Status: p.Status, Slug: p.Slug}, nil
}
