package models

import (
	"sort"
	"strings"
)

// SourceType distinguishes where a source was retrieved from.
type SourceType string

const (
	// SourceKnowledgeBase marks a vector-store snippet.
	SourceKnowledgeBase SourceType = "knowledge_base"
	// SourceWeb marks a web search result.
	SourceWeb SourceType = "web"
)

// Authority tiers. Lower is more authoritative.
const (
	// AuthorityPrimary covers regulators and official statistics.
	AuthorityPrimary = 1
	// AuthorityFinancialPress covers major financial press.
	AuthorityFinancialPress = 2
	// AuthorityBusinessMedia covers general business media.
	AuthorityBusinessMedia = 3
	// AuthorityUnranked is everything else.
	AuthorityUnranked = 4
)

// Source is a single research citation candidate.
type Source struct {
	// Title is the document or page title.
	Title string `json:"title"`
	// URL is the canonical location; sources are deduplicated by URL.
	URL string `json:"url"`
	// Snippet is the retrieved excerpt used for claim verification.
	Snippet string `json:"snippet"`
	// Date is the publication date string as reported by the provider.
	Date string `json:"date,omitempty"`
	// Authority is the domain authority tier (1 highest, 4 lowest).
	Authority int `json:"authority"`
	// Type records which collaborator produced the source.
	Type SourceType `json:"type"`
}

// DedupeSources merges source lists, keeping the first occurrence of each URL.
// Sources without a URL are kept as-is. The result is ordered by authority
// tier, preserving insertion order within a tier.
func DedupeSources(lists ...[]Source) []Source {
	seen := make(map[string]bool)
	var merged []Source
	for _, list := range lists {
		for _, s := range list {
			key := strings.TrimSpace(s.URL)
			if key != "" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			merged = append(merged, s)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Authority < merged[j].Authority
	})
	return merged
}
