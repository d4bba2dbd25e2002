package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
)

// Topic codes recognised by the resource catalog.
const (
	TopicCN   = "CN"
	TopicOS   = "OS"
	TopicDBMS = "DBMS"
	TopicDSA  = "DSA"
)

// Question is a problem the model found in the write-up.
type Question struct {
	Name     string   `json:"name" validate:"min=2"`
	Tags     []string `json:"tags"`
	Synonyms []string `json:"synonyms"`
}

// Structured is the validated output of the format step.
type Structured struct {
	Title          string          `json:"title" validate:"min=3"`
	Markdown       string          `json:"markdown" validate:"min=20"`
	Questions      []Question      `json:"questions" validate:"dive"`
	TopicsDetected []string        `json:"topicsDetected" validate:"dive,oneof=CN OS DBMS DSA"`
	SearchQueries  []bundle.Bundle `json:"searchQueries" validate:"dive"`
}

// Bundles returns the search bundles, falling back to one bundle per question.
func (s Structured) Bundles() []bundle.Bundle {
	if len(s.SearchQueries) > 0 {
		return s.SearchQueries
	}
	out := make([]bundle.Bundle, 0, len(s.Questions))
	for _, q := range s.Questions {
		out = append(out, bundle.Bundle{Question: q.Name, Queries: []string{q.Name}})
	}
	return out
}

// FormatInput carries a write-up and its metadata to the format step.
type FormatInput struct {
	Company         string
	Role            string
	InterviewDate   string
	DegreeLevel     string
	OpportunityType string
	ContentRaw      string
}

// Fallback is the structure used when model output cannot be parsed.
func Fallback(in FormatInput, modelText string) Structured {
	role := in.Role
	if strings.TrimSpace(role) == "" {
		role = "Interview"
	}
	md := modelText
	if strings.TrimSpace(md) == "" {
		md = in.ContentRaw
	}
	return Structured{
		Title:    strings.TrimSpace(in.Company + " " + role),
		Markdown: md,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared struct validator.
func Validator() *validator.Validate { return validate }

// ParseStructured decodes and validates model output.
// Errors wrap domain.ErrModelOutputInvalid.
func ParseStructured(raw string) (Structured, error) {
	var s Structured
	if err := json.Unmarshal([]byte(StripFence(raw)), &s); err != nil {
		return Structured{}, fmt.Errorf("decode structured post: %w: %w", domain.ErrModelOutputInvalid, err)
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Structured{}, fmt.Errorf("field %s failed %s: %w",
				verrs[0].Namespace(), verrs[0].Tag(), domain.ErrModelOutputInvalid)
		}
		return Structured{}, fmt.Errorf("validate structured post: %w", domain.ErrModelOutputInvalid)
	}
	return s, nil
}

// StripFence removes a surrounding markdown code fence some models add to JSON replies.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
