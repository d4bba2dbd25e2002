package post

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/practicelink/internal/domain"
)

// MinContentLen is the shortest accepted raw write-up.
const MinContentLen = 20

// CreateInput is a new submission.
type CreateInput struct {
	Company         string   `json:"company" validate:"max=120"`
	Role            string   `json:"role" validate:"max=120"`
	InterviewDate   string   `json:"interview_date" validate:"omitempty,datetime=2006-01-02"`
	DegreeLevel     string   `json:"degree_level" validate:"omitempty,oneof=BE ME Dual"`
	OpportunityType string   `json:"opportunity_type" validate:"omitempty,oneof=Internship Full-Time PS"`
	Topics          []string `json:"topics" validate:"dive,oneof=CN OS DBMS DSA"`
	ContentRaw      string   `json:"content_raw" validate:"min=20"`
}

// Validate checks the submission. Errors wrap domain.ErrInvalidInput.
func (in *CreateInput) Validate() error {
	in.ContentRaw = strings.TrimSpace(in.ContentRaw)
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(jsonField(fe.Field()), describe(fe))
	}
	return fmt.Errorf("validate post: %w", domain.ErrInvalidInput)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}

var fieldNames = map[string]string{
	"Company":         "company",
	"Role":            "role",
	"InterviewDate":   "interview_date",
	"DegreeLevel":     "degree_level",
	"OpportunityType": "opportunity_type",
	"Topics":          "topics",
	"ContentRaw":      "content_raw",
}

func jsonField(f string) string {
	if strings.HasPrefix(f, "Topics[") {
		return "topics"
	}
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return f
}
