// Package post defines the interview write-up aggregate and its generated structure.
package post

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
)

// Status is the processing state of a post.
type Status string

// Post statuses.
const (
	StatusProcessing Status = "processing"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

// IsValid checks if the status is known.
func (s Status) IsValid() bool {
	return s == StatusProcessing || s == StatusPublished || s == StatusFailed
}

// Degree levels.
const (
	DegreeBE   = "BE"
	DegreeME   = "ME"
	DegreeDual = "Dual"
)

// Opportunity types.
const (
	OpportunityInternship = "Internship"
	OpportunityFullTime   = "Full-Time"
	OpportunityPS         = "PS"
)

// MaxTitleLen is the rune limit applied to published titles.
const MaxTitleLen = 80

// Post is a student interview write-up.
type Post struct {
	ID               string
	Slug             string
	AuthorID         string
	Company          string
	Role             string
	InterviewDate    *time.Time
	DegreeLevel      string
	OpportunityType  string
	Topics           []string
	ContentRaw       string
	ContentFormatted string
	Title            string
	Links            []link.Picked
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Publication is the set of fields written when processing completes.
type Publication struct {
	Title            string
	ContentFormatted string
	Links            []link.Picked
}

var (
	reSlugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSlugSpace = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases s, drops punctuation and joins words with single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reSlugStrip.ReplaceAllString(s, "")
	s = reSlugSpace.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// MakeSlug builds the public slug from company, role and a random suffix.
func MakeSlug(company, role, suffix string) string {
	if strings.TrimSpace(company) == "" {
		company = "post"
	}
	if strings.TrimSpace(role) == "" {
		role = "interview"
	}
	base := Slugify(fmt.Sprintf("%s %s", company, role))
	if len(base) > 60 {
		base = strings.TrimRight(base[:60], "-")
	}
	return base + "-" + suffix
}

// TruncateTitle cuts a title to MaxTitleLen runes.
func TruncateTitle(t string) string {
	t = strings.TrimSpace(t)
	if utf8.RuneCountInString(t) <= MaxTitleLen {
		return t
	}
	return string([]rune(t)[:MaxTitleLen])
}
