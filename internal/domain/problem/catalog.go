// Package problem holds the curated catalog of canonical interview problems
// and the offline matchers that run against it.
package problem

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Entry is one canonical problem.
type Entry struct {
	Key      string   `yaml:"key"`
	Title    string   `yaml:"title"`
	LeetCode string   `yaml:"leetcode"`
	GFG      string   `yaml:"gfg"`
	Synonyms []string `yaml:"synonyms"`
}

// URL returns the primary provider link, LeetCode first. Empty when none is set.
func (e Entry) URL() string {
	if e.LeetCode != "" {
		return e.LeetCode
	}
	return e.GFG
}

func (e Entry) clone() Entry {
	e.Synonyms = append([]string(nil), e.Synonyms...)
	return e
}

// Catalog is an immutable, ordered list of entries.
type Catalog struct {
	entries []Entry
	titles  []string // lowercased, index-aligned with entries
}

type catalogFile struct {
	Problems []Entry `yaml:"problems"`
}

// LoadCatalog parses a YAML catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(f.Problems)
}

// NewCatalog builds a catalog from entries, keeping their order.
func NewCatalog(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalog is empty")
	}
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		titles:  make([]string, 0, len(entries)),
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		e.Key = strings.TrimSpace(e.Key)
		e.Title = strings.TrimSpace(e.Title)
		if e.Key == "" || e.Title == "" {
			return nil, fmt.Errorf("catalog entry %d: key and title are required", i)
		}
		k := strings.ToLower(e.Key)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate key %q", i, e.Key)
		}
		seen[k] = struct{}{}
		c.entries = append(c.entries, e.clone())
		c.titles = append(c.titles, strings.ToLower(e.Title))
	}
	return c, nil
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalogYAML)
}

// MustDefaultCatalog is DefaultCatalog that panics on a broken embed.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// ByURL finds the entry owning the given provider link. Trailing slashes are ignored.
func (c *Catalog) ByURL(rawURL string) (Entry, bool) {
	want := strings.TrimRight(strings.ToLower(strings.TrimSpace(rawURL)), "/")
	if want == "" {
		return Entry{}, false
	}
	for _, e := range c.entries {
		for _, u := range []string{e.LeetCode, e.GFG} {
			if u != "" && strings.TrimRight(strings.ToLower(u), "/") == want {
				return e.clone(), true
			}
		}
	}
	return Entry{}, false
}

// Canonical finds the entry whose title is a close fuzzy match of title.
func (c *Catalog) Canonical(title string) (Entry, bool) {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return Entry{}, false
	}
	ranks := fuzzy.RankFindNormalizedFold(t, c.titles)
	if len(ranks) == 0 {
		return Entry{}, false
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > len(best.Target)/3 {
		return Entry{}, false
	}
	return c.entries[best.OriginalIndex].clone(), true
}
