package practicelink

// Site identifies the provider a link points to.
type Site string

// Known sites.
const (
	SiteLeetCode Site = "LeetCode"
	SiteGFG      Site = "GFG"
	SiteOther    Site = "Other"
)

// Link is a verified practice link.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Site  Site   `json:"site"`
}

// Bundle names one problem and the web search phrasings for it.
type Bundle struct {
	Question string   `json:"question"`
	Queries  []string `json:"queries"`
}

// EnrichInput is one write-up to enrich. Bundles, when given, skip problem detection.
type EnrichInput struct {
	Raw       string
	Formatted string
	Bundles   []Bundle
}

// EnrichResult holds the links found for a write-up.
type EnrichResult struct {
	Links []Link `json:"links"`
	// PracticeMarkdown renders one bullet per link; empty when there are no links.
	PracticeMarkdown string `json:"practice_md"`
	// Tiers maps each link URL to the stage that found it: curated, search or model.
	Tiers map[string]string `json:"tiers"`
	// BundleSource is where the problem list came from: input, model, keyword or none.
	BundleSource string `json:"bundle_source"`
}

// MatchType records why a curated problem matched.
type MatchType string

// Match types, from most to least confident.
const (
	MatchExact     MatchType = "exact"
	MatchVariation MatchType = "variation"
	MatchSimilar   MatchType = "similar"
)

// Match is a curated catalog hit.
type Match struct {
	Title string    `json:"title"`
	URL   string    `json:"url"`
	Site  Site      `json:"site"`
	Type  MatchType `json:"match_type"`
	Note  string    `json:"note,omitempty"`
}
