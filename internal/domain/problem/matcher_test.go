package problem

import (
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/token"
)

func defaultMatcher(t *testing.T) *Matcher {
	t.Helper()
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return NewMatcher(c)
}

func singleEntryMatcher(t *testing.T, e Entry) *Matcher {
	t.Helper()
	c, err := NewCatalog([]Entry{e})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return NewMatcher(c)
}

var reverseLL = Entry{
	Key:      "reverse linked list",
	Title:    "Reverse Linked List",
	LeetCode: "https://leetcode.com/problems/reverse-linked-list/",
	GFG:      "https://www.geeksforgeeks.org/reverse-a-linked-list/",
	Synonyms: []string{"reverse ll", "reverse a linked list"},
}

func TestMatch_ReverseLinkedListExact(t *testing.T) {
	m := singleEntryMatcher(t, reverseLL)

	got := m.Match("I was asked to reverse a linked list", 3)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Type != link.Exact {
		t.Errorf("Type = %q, want exact", got[0].Type)
	}
	if got[0].Title != "Reverse Linked List" {
		t.Errorf("Title = %q", got[0].Title)
	}
	if got[0].Site != link.SiteLeetCode || got[0].URL != reverseLL.LeetCode {
		t.Errorf("link = %s %s", got[0].Site, got[0].URL)
	}
}

func TestMatch_CoinChangeVariation(t *testing.T) {
	got := defaultMatcher(t).Match("a variation of coin change problem", 3)
	if len(got) == 0 {
		t.Fatal("no match")
	}
	var hit *link.Match
	for i := range got {
		if got[i].Title == "Coin Change" {
			hit = &got[i]
		}
	}
	if hit == nil {
		t.Fatalf("Coin Change not matched: %+v", got)
	}
	if hit.Type != link.Variation {
		t.Errorf("Type = %q, want variation", hit.Type)
	}
	if hit.Note != "variation mentioned" {
		t.Errorf("Note = %q", hit.Note)
	}
}

func TestMatch_HedgeOnlyPromotes(t *testing.T) {
	m := singleEntryMatcher(t, reverseLL)
	plain := m.Match("we had to reverse linked list in place", 1)
	hedged := m.Match("we had a twist: reverse linked list in place", 1)
	if len(plain) != 1 || plain[0].Type != link.Exact {
		t.Fatalf("plain = %+v", plain)
	}
	if len(hedged) != 1 || hedged[0].Type != link.Variation {
		t.Fatalf("hedged = %+v", hedged)
	}
}

func TestMatch_HedgeOutsideWindow(t *testing.T) {
	m := singleEntryMatcher(t, reverseLL)
	text := "this one was modified a lot. " + strings.Repeat("x ", 100) + "then reverse linked list"
	got := m.Match(text, 1)
	if len(got) != 1 || got[0].Type != link.Exact {
		t.Fatalf("got %+v, want exact", got)
	}
}

func TestMatch_SynonymSimilar(t *testing.T) {
	got := defaultMatcher(t).Match("they asked about pair sum with hashing", 3)
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Title != "Two Sum" || got[0].Type != link.Similar {
		t.Errorf("got %+v", got[0])
	}
}

func TestMatch_OverlapInvariant(t *testing.T) {
	texts := []string{
		"reverse the list then find the middle node",
		"binary search on answer and coin change",
		"0-1 matrix radiation with bfs",
		"lemonade stand and two pointers",
		"nothing relevant here at all",
	}
	c := MustDefaultCatalog()
	m := NewMatcher(c)
	byTitle := map[string]Entry{}
	for _, e := range c.Entries() {
		byTitle[e.Title] = e
	}
	for _, text := range texts {
		hay := token.Set(token.Normalize(text))
		for _, hit := range m.Match(text, 10) {
			e := byTitle[hit.Title]
			phrases := append([]string{e.Key}, e.Synonyms...)
			if !slices.ContainsFunc(phrases, func(p string) bool { return overlap(p, hay) >= 0.66 }) {
				t.Errorf("%q matched %q without sufficient overlap", text, hit.Title)
			}
		}
	}
}

func overlap(p string, hay map[string]struct{}) float64 {
	toks := token.Normalize(p)
	hit := 0
	for _, t := range toks {
		if _, ok := hay[t]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(toks))
}

func TestMatch_LimitAndOrder(t *testing.T) {
	text := "reverse ll, coin change, two sum and binary search"
	m := defaultMatcher(t)

	got := m.Match(text, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Title != "Reverse Linked List" || got[1].Title != "Coin Change" {
		t.Errorf("order = %s, %s", got[0].Title, got[1].Title)
	}
	if n := len(m.Match(text, 0)); n != DefaultMatchLimit {
		t.Errorf("default limit: len = %d", n)
	}
}

func TestMatch_NoProviderLinkSkipped(t *testing.T) {
	m := singleEntryMatcher(t, Entry{Key: "two sum", Title: "Two Sum"})
	if got := m.Match("two sum", 3); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestMatch_GFGOnlyEntry(t *testing.T) {
	m := singleEntryMatcher(t, Entry{Key: "two sum", Title: "Two Sum", GFG: "https://www.geeksforgeeks.org/two-sum-problem/"})
	got := m.Match("two sum", 3)
	if len(got) != 1 || got[0].Site != link.SiteGFG {
		t.Errorf("got %+v", got)
	}
}

func TestMatch_EmptyText(t *testing.T) {
	if got := defaultMatcher(t).Match("   ", 3); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestBest(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantType  link.MatchType
		wantOK    bool
	}{
		{"full key beats earlier partial key", "Middle of the Linked List", "Middle of the Linked List", link.Exact, true},
		{"first entry still wins its own key", "Reverse Linked List", "Reverse Linked List", link.Exact, true},
		{"partial key overlap is only similar", "Detect cycle in a linked list", "Reverse Linked List", link.Similar, true},
		{"hedged full key is a variation", "a variation of coin change", "Coin Change", link.Variation, true},
		{"full synonym without hedge is similar", "count pair sum", "Two Sum", link.Similar, true},
		{"no overlap", "design a rate limiter", "", "", false},
		{"empty", "  ", "", "", false},
	}
	m := defaultMatcher(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Best(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (%+v)", ok, tt.wantOK, got)
			}
			if !ok {
				return
			}
			if got.Title != tt.wantTitle || got.Type != tt.wantType {
				t.Errorf("Best(%q) = %s/%s, want %s/%s", tt.text, got.Title, got.Type, tt.wantTitle, tt.wantType)
			}
		})
	}
}

func TestBest_AgreesWithMatchOnCatalogKeys(t *testing.T) {
	m := defaultMatcher(t)
	for _, e := range MustDefaultCatalog().Entries() {
		got, ok := m.Best(e.Key)
		if !ok || got.Title != e.Title || got.Type != link.Exact {
			t.Errorf("Best(%q) = %+v, %v; want exact %s", e.Key, got, ok, e.Title)
		}
	}
}
