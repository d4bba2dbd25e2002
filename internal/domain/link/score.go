package link

import (
	"regexp"
	"sort"
	"strings"
)

var (
	reNonWord       = regexp.MustCompile(`\W+`)
	reLeetCodeTitle = regexp.MustCompile(`(?i)\s*\|\s*LeetCode`)
	reGFGTitle      = regexp.MustCompile(`(?i)\s*- GeeksforGeeks`)
)

// Score rates a candidate against the query phrase. Higher is better.
func Score(query string, c Candidate) float64 {
	q := strings.ToLower(query)
	title := strings.ToLower(c.Title)

	var s float64
	if IsLeetCodeProblem(c.URL) {
		s += 3
	}
	if IsGFGArticle(c.URL) {
		s += 2
	}
	if q != "" && strings.Contains(title, q) {
		s += 2
	}

	titleTokens := make(map[string]struct{})
	for _, t := range reNonWord.Split(title, -1) {
		if t != "" {
			titleTokens[t] = struct{}{}
		}
	}
	for _, t := range reNonWord.Split(q, -1) {
		if t == "" {
			continue
		}
		if _, ok := titleTokens[t]; ok {
			s += 0.5
		}
	}
	return s
}

// Rank orders candidates by descending score against query. Ties keep input order.
func Rank(query string, cands []Candidate) []Candidate {
	type scored struct {
		c Candidate
		s float64
	}
	tmp := make([]scored, len(cands))
	for i, c := range cands {
		tmp[i] = scored{c: c, s: Score(query, c)}
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].s > tmp[j].s })

	out := make([]Candidate, len(tmp))
	for i, x := range tmp {
		out[i] = x.c
	}
	return out
}

// CleanTitle strips provider suffixes from a page title.
func CleanTitle(t string) string {
	t = reLeetCodeTitle.ReplaceAllString(t, "")
	t = reGFGTitle.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}
