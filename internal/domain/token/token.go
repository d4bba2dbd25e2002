// Package token turns free text into the normalised token sequence used by every
// fuzzy comparison in the enrichment engine.
package token

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	reHyphens    = regexp.MustCompile(`-+`)
)

// stopWords are articles, prepositions and copulas that carry no matching signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "to": {}, "and": {}, "in": {}, "on": {},
	"for": {}, "with": {}, "by": {}, "at": {}, "is": {}, "was": {}, "be": {}, "been": {},
}

// suffixes are tried in order; the first one that ends the token is removed.
var suffixes = []string{"ing", "ed", "es", "s"}

// Normalize lowercases text, strips punctuation and stop-words and applies a crude
// suffix-stripping stem. Token order follows the input.
func Normalize(text string) []string {
	s := strings.ToLower(fold(text))
	s = reDisallowed.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if IsStopWord(f) {
			continue
		}
		if t := Stem(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Stem removes one inflection suffix, then a trailing "ly", and collapses hyphen runs.
func Stem(w string) string {
	for _, suf := range suffixes {
		if strings.HasSuffix(w, suf) {
			w = w[:len(w)-len(suf)]
			break
		}
	}
	w = strings.TrimSuffix(w, "ly")
	return reHyphens.ReplaceAllString(w, "-")
}

// IsStopWord reports whether w is dropped by Normalize.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Set returns the tokens of text as a lookup set.
func Set(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// fold maps compatibility forms and accented Latin letters onto plain ASCII where possible.
func fold(s string) string {
	decomp := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
