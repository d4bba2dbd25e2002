// Package resource is the static table of study resources keyed by topic code.
package resource

import (
	"fmt"
	"strings"
)

// Type is the resource kind.
type Type string

// Resource kinds.
const (
	TypeYouTube Type = "youtube"
	TypeSheet   Type = "sheet"
	TypeArticle Type = "article"
)

// Resource is a curated study link.
type Resource struct {
	Topic  string `json:"topic"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Type   Type   `json:"type"`
	Author string `json:"author,omitempty"`
}

// Pick defaults.
const (
	DefaultPerTopic = 2
	DefaultMaxTotal = 6
)

var catalog = []Resource{
	{
		Topic:  "CN",
		Title:  "Gate Smashers – Computer Networks (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=Gate+Smashers+Computer+Networks+playlist",
		Type:   TypeYouTube,
		Author: "Gate Smashers",
	},
	{
		Topic:  "CN",
		Title:  "Love Babbar – Computer Networks (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=Love+Babbar+Computer+Networks+playlist",
		Type:   TypeYouTube,
		Author: "CodeHelp by Babbar",
	},
	{
		Topic:  "OS",
		Title:  "Gate Smashers – Operating Systems (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=Gate+Smashers+Operating+System+playlist",
		Type:   TypeYouTube,
		Author: "Gate Smashers",
	},
	{
		Topic:  "OS",
		Title:  "Love Babbar – Operating Systems (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=Love+Babbar+Operating+Systems+playlist",
		Type:   TypeYouTube,
		Author: "CodeHelp by Babbar",
	},
	{
		Topic:  "DBMS",
		Title:  "Love Babbar – DBMS (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=Love+Babbar+DBMS+playlist",
		Type:   TypeYouTube,
		Author: "CodeHelp by Babbar",
	},
	{
		Topic:  "DBMS",
		Title:  "Gate Smashers – DBMS (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=Gate+Smashers+DBMS+playlist",
		Type:   TypeYouTube,
		Author: "Gate Smashers",
	},
	{
		Topic:  "DSA",
		Title:  "Striver – A2Z DSA Course (Playlist)",
		URL:    "https://www.youtube.com/results?search_query=takeUforward+A2Z+DSA+playlist",
		Type:   TypeYouTube,
		Author: "takeUforward",
	},
	{
		Topic:  "DSA",
		Title:  "Striver – SDE Sheet (Website)",
		URL:    "https://takeuforward.org/",
		Type:   TypeSheet,
		Author: "takeUforward",
	},
}

// All returns a copy of the table.
func All() []Resource {
	return append([]Resource(nil), catalog...)
}

// Pick selects up to perTopic resources for each known topic, in the order the
// topics are given, capped at maxTotal and unique by URL.
func Pick(topics []string, perTopic, maxTotal int) []Resource {
	if perTopic <= 0 {
		perTopic = DefaultPerTopic
	}
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}

	var (
		out    []Resource
		wanted = make(map[string]struct{})
		urls   = make(map[string]struct{})
	)
	for _, t := range topics {
		t = strings.ToUpper(strings.TrimSpace(t))
		if _, dup := wanted[t]; dup {
			continue
		}
		wanted[t] = struct{}{}

		n := 0
		for _, r := range catalog {
			if r.Topic != t || n >= perTopic {
				continue
			}
			n++
			if _, dup := urls[r.URL]; dup {
				continue
			}
			urls[r.URL] = struct{}{}
			out = append(out, r)
			if len(out) >= maxTotal {
				return out
			}
		}
	}
	return out
}

// Markdown renders one bullet per resource. Empty input renders "".
func Markdown(rs []Resource) string {
	lines := make([]string, 0, len(rs))
	for _, r := range rs {
		meta := string(r.Type)
		if r.Author != "" {
			meta += " • " + r.Author
		}
		lines = append(lines, fmt.Sprintf("- **%s** (%s) → %s", r.Title, meta, r.URL))
	}
	return strings.Join(lines, "\n")
}
