// Package link holds the practice-link value types and the pure validation,
// scoring and rendering rules applied to them.
package link

import (
	"net/url"
	"strings"
)

// Site identifies the provider a link points to.
type Site string

// Known sites.
const (
	SiteLeetCode Site = "LeetCode"
	SiteGFG      Site = "GFG"
	SiteOther    Site = "Other"
)

// MatchType records why a curated entry matched.
type MatchType string

// Match types, from most to least confident.
const (
	Exact     MatchType = "exact"
	Variation MatchType = "variation"
	Similar   MatchType = "similar"
)

// Candidate is a raw search hit before validation.
type Candidate struct {
	Title   string
	URL     string
	Snippet string
}

// Picked is a validated practice link.
type Picked struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Site  Site   `json:"site"`
}

// Match is a curated catalog hit.
type Match struct {
	Title string    `json:"title"`
	URL   string    `json:"url"`
	Site  Site      `json:"site"`
	Type  MatchType `json:"match_type"`
	Note  string    `json:"note,omitempty"`
}

// Picked converts the match into a practice link.
func (m Match) Picked() Picked {
	return Picked{Title: m.Title, URL: m.URL, Site: m.Site}
}

// NewMatch builds a match; the note and site are derived.
func NewMatch(title, rawURL string, typ MatchType) Match {
	note := string(typ)
	if typ == Variation {
		note = "variation mentioned"
	}
	return Match{Title: title, URL: rawURL, Site: SiteFromURL(rawURL), Type: typ, Note: note}
}

// SiteFromURL derives the site from the URL host.
func SiteFromURL(rawURL string) Site {
	host, ok := hostOf(rawURL)
	switch {
	case !ok:
		return SiteOther
	case hostMatches(host, "leetcode.com"):
		return SiteLeetCode
	case hostMatches(host, "geeksforgeeks.org"):
		return SiteGFG
	default:
		return SiteOther
	}
}

// hostOf returns the lowercased host of an absolute http(s) URL without port and leading "www.".
func hostOf(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return strings.TrimPrefix(host, "www."), true
}

// hostMatches reports whether host equals suffix or is a subdomain of it.
func hostMatches(host, suffix string) bool {
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
