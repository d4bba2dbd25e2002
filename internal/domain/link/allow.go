package link

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultAllowedDomains is used when no allow-list is configured.
const DefaultAllowedDomains = "leetcode.com,geeksforgeeks.org"

var (
	reLeetCodePath = regexp.MustCompile(`^/problems/[^/]+/?$`)
	reGFGPath      = regexp.MustCompile(`/[^/]+/?$`)
)

// AllowList is an immutable set of trusted host suffixes.
type AllowList struct {
	suffixes []string
}

// ParseAllowList parses a comma-separated domain list. Blank items are skipped.
func ParseAllowList(csv string) AllowList {
	var out []string
	seen := make(map[string]struct{})
	for _, d := range strings.Split(csv, ",") {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return AllowList{suffixes: out}
}

// Domains returns a copy of the configured suffixes.
func (a AllowList) Domains() []string {
	return append([]string(nil), a.suffixes...)
}

// Empty reports whether no domain is allowed.
func (a AllowList) Empty() bool { return len(a.suffixes) == 0 }

// IsAllowed reports whether the URL host ends with an allowed suffix.
// Malformed and relative URLs are never allowed.
func (a AllowList) IsAllowed(rawURL string) bool {
	host, ok := hostOf(rawURL)
	if !ok {
		return false
	}
	for _, s := range a.suffixes {
		if hostMatches(host, s) {
			return true
		}
	}
	return false
}

// IsLeetCodeProblem reports whether the URL is a single LeetCode problem page.
func IsLeetCodeProblem(rawURL string) bool {
	host, path, ok := hostPath(rawURL)
	return ok && hostMatches(host, "leetcode.com") && reLeetCodePath.MatchString(path)
}

// IsGFGArticle reports whether the URL looks like a GeeksforGeeks article.
func IsGFGArticle(rawURL string) bool {
	host, path, ok := hostPath(rawURL)
	return ok && hostMatches(host, "geeksforgeeks.org") && reGFGPath.MatchString(path)
}

// IsPracticeURL reports whether a model-proposed URL has an acceptable shape.
func IsPracticeURL(rawURL string) bool {
	host, path, ok := hostPath(rawURL)
	if !ok {
		return false
	}
	if hostMatches(host, "leetcode.com") {
		return strings.HasPrefix(path, "/problems/") && len(path) > len("/problems/")
	}
	return hostMatches(host, "geeksforgeeks.org")
}

func hostPath(rawURL string) (host, path string, ok bool) {
	host, ok = hostOf(rawURL)
	if !ok {
		return "", "", false
	}
	u, _ := url.Parse(strings.TrimSpace(rawURL))
	return host, u.Path, true
}
