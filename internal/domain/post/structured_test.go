package post

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/practicelink/internal/domain"
)

const validStructured = `{
  "title": "Acme SDE Intern",
  "markdown": "## Summary\nTwo rounds of DSA and a short HR chat.",
  "questions": [{"name": "Two Sum", "tags": ["array"]}],
  "topicsDetected": ["DSA"],
  "searchQueries": [{"question": "Two Sum", "queries": ["two sum leetcode"]}]
}`

func TestParseStructured(t *testing.T) {
	s, err := ParseStructured(validStructured)
	if err != nil {
		t.Fatalf("ParseStructured: %v", err)
	}
	if s.Title != "Acme SDE Intern" || len(s.TopicsDetected) != 1 {
		t.Errorf("got %+v", s)
	}
	if b := s.Bundles(); len(b) != 1 || b[0].Queries[0] != "two sum leetcode" {
		t.Errorf("Bundles = %+v", b)
	}
}

func TestParseStructured_Fenced(t *testing.T) {
	if _, err := ParseStructured("```json\n" + validStructured + "\n```"); err != nil {
		t.Fatalf("fenced: %v", err)
	}
}

func TestParseStructured_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":      "Here is your post!",
		"short title":   `{"title":"A","markdown":"long enough markdown text here"}`,
		"short md":      `{"title":"Acme","markdown":"short"}`,
		"bad topic":     `{"title":"Acme","markdown":"long enough markdown text here","topicsDetected":["ML"]}`,
		"empty queries": `{"title":"Acme","markdown":"long enough markdown text here","searchQueries":[{"question":"x","queries":[]}]}`,
		"short name":    `{"title":"Acme","markdown":"long enough markdown text here","questions":[{"name":"x"}]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseStructured(raw)
			if !errors.Is(err, domain.ErrModelOutputInvalid) {
				t.Errorf("err = %v, want ErrModelOutputInvalid", err)
			}
		})
	}
}

func TestStructured_BundlesFromQuestions(t *testing.T) {
	s := Structured{Questions: []Question{{Name: "Coin Change"}}}
	b := s.Bundles()
	if len(b) != 1 || b[0].Question != "Coin Change" || b[0].Queries[0] != "Coin Change" {
		t.Errorf("Bundles = %+v", b)
	}
}

func TestFallback(t *testing.T) {
	in := FormatInput{Company: "Acme", ContentRaw: "raw text"}
	f := Fallback(in, "model said things")
	if f.Title != "Acme Interview" || f.Markdown != "model said things" {
		t.Errorf("Fallback = %+v", f)
	}
	if got := Fallback(FormatInput{Role: "SDE", ContentRaw: "raw"}, ""); got.Title != "SDE" || got.Markdown != "raw" {
		t.Errorf("Fallback empty = %+v", got)
	}
}
