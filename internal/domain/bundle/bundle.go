package bundle

import "strings"

// Bundle pairs one detected problem with the search phrasings for it.
type Bundle struct {
	Question string   `json:"question"`
	Queries  []string `json:"queries" validate:"min=1"`
}

// Text joins the question and its queries for fuzzy matching.
func (b Bundle) Text() string {
	parts := make([]string, 0, len(b.Queries)+1)
	parts = append(parts, b.Question)
	parts = append(parts, b.Queries...)
	return strings.Join(parts, " \n ")
}

// Phrases returns the question followed by its queries.
func (b Bundle) Phrases() []string {
	out := make([]string, 0, len(b.Queries)+1)
	out = append(out, b.Question)
	return append(out, b.Queries...)
}

// Normalize drops bundles with an empty question, dedupes by lowercased trimmed
// question keeping the first occurrence, fills missing queries with the question
// and truncates the result to limit (no limit when limit <= 0).
func Normalize(in []Bundle, limit int) []Bundle {
	seen := make(map[string]struct{}, len(in))
	out := make([]Bundle, 0, len(in))
	for _, b := range in {
		q := strings.TrimSpace(b.Question)
		key := strings.ToLower(q)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		queries := make([]string, 0, len(b.Queries))
		for _, s := range b.Queries {
			if s = strings.TrimSpace(s); s != "" {
				queries = append(queries, s)
			}
		}
		if len(queries) == 0 {
			queries = []string{q}
		}
		out = append(out, Bundle{Question: q, Queries: queries})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
