package problem

import (
	"strings"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/token"
)

const (
	// DefaultMatchLimit is used when Match is called with limit <= 0.
	DefaultMatchLimit = 3

	minOverlap   = 0.66
	windowBefore = 60
	windowSize   = 160
)

var hedgeWords = []string{"variation", "variant", "similar", "twist", "modified", "like"}

type phrase struct {
	tokens []string
}

type compiled struct {
	entry    Entry
	url      string
	key      phrase
	synonyms []phrase
}

// Matcher fuzzy-matches text against a catalog. Safe for concurrent use.
type Matcher struct {
	entries []compiled
}

// NewMatcher pre-tokenizes every key and synonym of the catalog.
func NewMatcher(c *Catalog) *Matcher {
	m := &Matcher{entries: make([]compiled, 0, c.Len())}
	for _, e := range c.entries {
		ce := compiled{
			entry: e,
			url:   e.URL(),
			key:   phrase{tokens: token.Normalize(e.Key)},
		}
		for _, s := range e.Synonyms {
			ce.synonyms = append(ce.synonyms, phrase{tokens: token.Normalize(s)})
		}
		m.entries = append(m.entries, ce)
	}
	return m
}

// Match returns at most limit curated hits for text, in catalog order.
func (m *Matcher) Match(text string, limit int) []link.Match {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	lower := strings.ToLower(text)
	hay := token.Set(token.Normalize(text))
	if len(hay) == 0 {
		return nil
	}

	var out []link.Match
	for _, ce := range m.entries {
		if ce.url == "" {
			continue
		}
		typ, ok := ce.classify(lower, hay)
		if !ok {
			continue
		}
		out = append(out, link.NewMatch(ce.entry.Title, ce.url, typ))
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (ce compiled) classify(lower string, hay map[string]struct{}) (link.MatchType, bool) {
	if ce.key.matches(hay) {
		if nearHedge(lower, ce.key.offset(lower, hay)) {
			return link.Variation, true
		}
		return link.Exact, true
	}
	for _, syn := range ce.synonyms {
		if !syn.matches(hay) {
			continue
		}
		if nearHedge(lower, syn.offset(lower, hay)) {
			return link.Variation, true
		}
		return link.Similar, true
	}
	return "", false
}

// Best returns the single entry whose key or synonym has the largest share of its
// tokens present in text. Ties keep catalog order, and a key beats a synonym of the
// same entry. Only a fully covered phrase keeps its exact or variation type; a
// partially covered one is reported as similar.
func (m *Matcher) Best(text string) (link.Match, bool) {
	lower := strings.ToLower(text)
	hay := token.Set(token.Normalize(text))
	if len(hay) == 0 {
		return link.Match{}, false
	}

	var (
		best      link.Match
		bestRatio float64
		found     bool
	)
	for _, ce := range m.entries {
		if ce.url == "" {
			continue
		}
		typ, ratio, ok := ce.grade(lower, hay)
		if !ok || ratio <= bestRatio {
			continue
		}
		best, bestRatio, found = link.NewMatch(ce.entry.Title, ce.url, typ), ratio, true
	}
	return best, found
}

// grade scores the best-covered phrase of the entry.
func (ce compiled) grade(lower string, hay map[string]struct{}) (link.MatchType, float64, bool) {
	var (
		top   phrase
		ratio float64
		isKey bool
	)
	if r := ce.key.ratio(hay); r >= minOverlap {
		top, ratio, isKey = ce.key, r, true
	}
	for _, syn := range ce.synonyms {
		if r := syn.ratio(hay); r >= minOverlap && r > ratio {
			top, ratio, isKey = syn, r, false
		}
	}
	if ratio == 0 {
		return "", 0, false
	}

	switch {
	case ratio < 1:
		return link.Similar, ratio, true
	case nearHedge(lower, top.offset(lower, hay)):
		return link.Variation, ratio, true
	case isKey:
		return link.Exact, ratio, true
	default:
		return link.Similar, ratio, true
	}
}

// matches requires at least two thirds of the phrase tokens in the haystack.
func (p phrase) matches(hay map[string]struct{}) bool {
	return p.ratio(hay) >= minOverlap
}

// ratio is the share of phrase tokens present in the haystack.
func (p phrase) ratio(hay map[string]struct{}) float64 {
	if len(p.tokens) == 0 {
		return 0
	}
	hit := 0
	for _, t := range p.tokens {
		if _, ok := hay[t]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(p.tokens))
}

// offset locates the first phrase token present in the haystack within the lowercased text.
func (p phrase) offset(lower string, hay map[string]struct{}) int {
	for _, t := range p.tokens {
		if _, ok := hay[t]; !ok {
			continue
		}
		if i := strings.Index(lower, t); i >= 0 {
			return i
		}
	}
	return 0
}

func nearHedge(lower string, offset int) bool {
	start := max(0, offset-windowBefore)
	if start > len(lower) {
		return false
	}
	end := min(len(lower), start+windowSize)
	window := lower[start:end]
	for _, w := range hedgeWords {
		if strings.Contains(window, w) {
			return true
		}
	}
	return false
}
