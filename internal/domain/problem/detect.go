package problem

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
	"github.com/kailas-cloud/practicelink/internal/domain/token"
)

// Low-confidence phrase patterns, used only when no upstream extraction ran.
var detectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`reverse (?:a |the )?(?:singly )?linked list`),
	regexp.MustCompile(`middle of (?:the |a )?linked list`),
	regexp.MustCompile(`0-?1 matrix`),
	regexp.MustCompile(`coin change`),
	regexp.MustCompile(`two sum`),
	regexp.MustCompile(`binary search`),
	regexp.MustCompile(`lemonade change`),
	regexp.MustCompile(`longest (?:common |increasing |palindromic )?sub(?:string|sequence)`),
	regexp.MustCompile(`(?:merge|detect) (?:two sorted lists|intervals|cycle)`),
	regexp.MustCompile(`\b([a-z0-9]+(?: [a-z0-9]+){0,3}) problem\b`),
}

// filler words are trimmed from the ends of a generic "<words> problem" phrase.
var filler = map[string]struct{}{
	"variation": {}, "variant": {}, "similar": {}, "like": {}, "twist": {}, "modified": {},
	"asked": {}, "solve": {}, "solved": {}, "given": {}, "classic": {}, "standard": {},
	"famous": {}, "easy": {}, "medium": {}, "hard": {}, "this": {}, "that": {}, "then": {},
	"it": {}, "i": {}, "we": {}, "he": {}, "she": {}, "they": {}, "me": {}, "us": {},
	"my": {}, "our": {}, "your": {}, "his": {}, "her": {}, "their": {},
}

type detected struct {
	at     int
	phrase string
}

// DetectBundles finds problem phrases in text with fixed regexes and returns one
// bundle per distinct phrase in order of appearance.
func DetectBundles(text string) []bundle.Bundle {
	lower := strings.Join(strings.Fields(strings.ToLower(text)), " ")

	var found []detected
	for i, re := range detectPatterns {
		generic := i == len(detectPatterns)-1
		for _, loc := range re.FindAllStringSubmatchIndex(lower, -1) {
			p := lower[loc[0]:loc[1]]
			if generic {
				p = trimFiller(lower[loc[2]:loc[3]])
			}
			if p == "" {
				continue
			}
			found = append(found, detected{at: loc[0], phrase: p})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })

	seen := make(map[string]struct{}, len(found))
	var out []bundle.Bundle
	for _, d := range found {
		if covered(d.phrase, seen) {
			continue
		}
		seen[d.phrase] = struct{}{}
		out = append(out, bundle.Bundle{
			Question: d.phrase,
			Queries:  []string{d.phrase, d.phrase + " leetcode"},
		})
	}
	return out
}

// trimFiller drops filler and stop words from both ends. A lone remaining word is rejected.
func trimFiller(p string) string {
	words := strings.Fields(p)
	for len(words) > 0 && isFiller(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && isFiller(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) < 2 {
		return ""
	}
	return strings.Join(words, " ")
}

func isFiller(w string) bool {
	_, ok := filler[w]
	return ok || token.IsStopWord(w)
}

// covered reports whether p repeats or contains an already detected phrase.
func covered(p string, seen map[string]struct{}) bool {
	for s := range seen {
		if strings.Contains(p, s) || strings.Contains(s, p) {
			return true
		}
	}
	return false
}
