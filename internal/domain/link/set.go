package link

import (
	"fmt"
	"strings"
)

// Set accumulates links in insertion order, unique by URL, up to a cap.
type Set struct {
	limit int
	links []Picked
	seen  map[string]struct{}
}

// NewSet creates a set holding at most limit links.
func NewSet(limit int) *Set {
	return &Set{limit: limit, seen: make(map[string]struct{})}
}

// Add appends p unless its URL is present or the set is full. Reports whether p was added.
func (s *Set) Add(p Picked) bool {
	if s.Full() || p.URL == "" {
		return false
	}
	if _, ok := s.seen[p.URL]; ok {
		return false
	}
	s.seen[p.URL] = struct{}{}
	s.links = append(s.links, p)
	return true
}

// Has reports whether a link with this URL was added.
func (s *Set) Has(rawURL string) bool {
	_, ok := s.seen[rawURL]
	return ok
}

// Full reports whether the cap is reached.
func (s *Set) Full() bool { return len(s.links) >= s.limit }

// Len returns the number of links.
func (s *Set) Len() int { return len(s.links) }

// Links returns a copy of the collected links.
func (s *Set) Links() []Picked {
	return append([]Picked(nil), s.links...)
}

// Dedupe drops links whose URL already appeared, preserving order.
func Dedupe(links []Picked) []Picked {
	s := NewSet(len(links))
	for _, l := range links {
		s.Add(l)
	}
	return s.Links()
}

// RenderMarkdown renders one bullet per link. Empty input renders "".
func RenderMarkdown(links []Picked) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, fmt.Sprintf("- **%s** (**%s**) → %s", l.Title, l.Site, l.URL))
	}
	return strings.Join(lines, "\n")
}
