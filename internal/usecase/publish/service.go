// Package publish turns a submitted write-up into its published form.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain"
	dompost "github.com/kailas-cloud/practicelink/internal/domain/post"
	"github.com/kailas-cloud/practicelink/internal/domain/resource"
	"github.com/kailas-cloud/practicelink/internal/logger"
	"github.com/kailas-cloud/practicelink/internal/metrics"
	"github.com/kailas-cloud/practicelink/internal/usecase/enrichment"
)

// Section headings appended to the formatted write-up.
const (
	practiceHeading  = "\n\n## Practice & Similar Problems\n"
	resourcesHeading = "\n\n## Recommended Resources\n"
)

// Resource selection limits.
const (
	resourcesPerTopic = 2
	resourcesTotal    = 6
)

// Service formats, enriches and publishes posts.
type Service struct {
	repo      Repository
	formatter Formatter
	enricher  Enricher
}

// New creates a publish service. A nil formatter publishes the raw write-up.
func New(repo Repository, formatter Formatter, enricher Enricher) *Service {
	return &Service{repo: repo, formatter: formatter, enricher: enricher}
}

// Process publishes the post. Any failure after the post is loaded marks it failed.
func (s *Service) Process(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		metrics.PublishTotal.WithLabelValues("not_found").Inc()
		return fmt.Errorf("get post: %w", err)
	}

	ctx = logger.With(ctx, zap.String("post_id", id))

	pub, err := s.build(ctx, p)
	if err == nil {
		err = s.repo.Publish(ctx, id, pub)
		if err != nil {
			err = fmt.Errorf("publish post: %w", err)
		}
	}
	if err != nil {
		metrics.PublishTotal.WithLabelValues("failed").Inc()
		// The request deadline may already be spent.
		if serr := s.repo.SetStatus(context.WithoutCancel(ctx), id, dompost.StatusFailed); serr != nil {
			logger.FromContext(ctx).Warn("Failed to mark post failed", zap.Error(serr))
		}
		return err
	}

	metrics.PublishTotal.WithLabelValues("published").Inc()
	logger.FromContext(ctx).Info("Post published",
		zap.String("slug", p.Slug),
		zap.Int("links", len(pub.Links)),
	)
	return nil
}

func (s *Service) build(ctx context.Context, p dompost.Post) (dompost.Publication, error) {
	in := formatInput(p)

	structured, err := s.format(ctx, in)
	if err != nil {
		return dompost.Publication{}, err
	}

	res := s.enricher.Enrich(ctx, enrichment.Input{
		Raw:       p.ContentRaw,
		Formatted: structured.Markdown,
		Bundles:   structured.Bundles(),
	})

	topics := unionTopics(p.Topics, structured.TopicsDetected)
	resourcesMD := resource.Markdown(resource.Pick(topics, resourcesPerTopic, resourcesTotal))

	md := structured.Markdown
	if res.PracticeMD != "" {
		md += practiceHeading + res.PracticeMD
	}
	if resourcesMD != "" {
		md += resourcesHeading + resourcesMD
	}

	return dompost.Publication{
		Title:            dompost.TruncateTitle(structured.Title),
		ContentFormatted: md,
		Links:            res.Links,
	}, nil
}

// format returns the validated structure, or the fallback when the model reply is unusable.
func (s *Service) format(ctx context.Context, in dompost.FormatInput) (dompost.Structured, error) {
	if s.formatter == nil {
		return dompost.Fallback(in, ""), nil
	}

	raw, err := s.formatter.FormatPost(ctx, in)
	if err != nil {
		return dompost.Structured{}, fmt.Errorf("AI failed: %w", err)
	}

	structured, err := dompost.ParseStructured(raw)
	if errors.Is(err, domain.ErrModelOutputInvalid) {
		logger.FromContext(ctx).Warn("Model output rejected, using fallback", zap.Error(err))
		return dompost.Fallback(in, raw), nil
	}
	if err != nil {
		return dompost.Structured{}, fmt.Errorf("parse format output: %w", err)
	}
	return structured, nil
}

func formatInput(p dompost.Post) dompost.FormatInput {
	var date string
	if p.InterviewDate != nil {
		date = p.InterviewDate.Format("2006-01-02")
	}
	return dompost.FormatInput{
		Company:         p.Company,
		Role:            p.Role,
		InterviewDate:   date,
		DegreeLevel:     p.DegreeLevel,
		OpportunityType: p.OpportunityType,
		ContentRaw:      p.ContentRaw,
	}
}

// unionTopics keeps the user's topics first, then newly detected ones.
func unionTopics(user, detected []string) []string {
	seen := make(map[string]struct{}, len(user)+len(detected))
	out := make([]string, 0, len(user)+len(detected))
	for _, t := range append(append([]string(nil), user...), detected...) {
		key := strings.ToUpper(strings.TrimSpace(t))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
