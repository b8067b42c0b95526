package entity

import (
	"strings"
	"time"
)

// SearchResult is one fallback search hit. Always secondary content.
type SearchResult struct {
	Query     string `json:"query"`
	Snippet   string `json:"snippet"`
	SourceURL string `json:"source_url,omitempty"`
}

// Metadata describes a knowledge record.
type Metadata struct {
	SourceURL    string    `json:"source_url"`
	DisplayName  string    `json:"display_name"`
	ExtractedAt  time.Time `json:"extracted_at"`
	PageCount    int       `json:"page_count"`
	HasSecondary bool      `json:"has_secondary"`
}

// KnowledgeRecord is the persisted product of one acquisition cycle.
// Immutable after persistence; a later refresh supersedes it wholesale.
type KnowledgeRecord struct {
	Metadata         Metadata       `json:"metadata"`
	PrimaryContent   []PageRecord   `json:"primary_content"`
	SecondaryContent []SearchResult `json:"secondary_content"`
}

// NewKnowledgeRecord assembles a record from crawl and search output,
// deduplicating pages by URL and results by query, and deriving the
// metadata invariants (page_count, has_secondary) from the content.
func NewKnowledgeRecord(sourceURL, displayName string, pages []PageRecord, results []SearchResult) *KnowledgeRecord {
	seenURLs := make(map[string]bool, len(pages))
	primary := make([]PageRecord, 0, len(pages))
	for _, p := range pages {
		if seenURLs[p.URL] {
			continue
		}
		seenURLs[p.URL] = true
		primary = append(primary, p)
	}

	seenQueries := make(map[string]bool, len(results))
	secondary := make([]SearchResult, 0, len(results))
	for _, r := range results {
		q := strings.ToLower(strings.TrimSpace(r.Query))
		if seenQueries[q] {
			continue
		}
		seenQueries[q] = true
		secondary = append(secondary, r)
	}

	return &KnowledgeRecord{
		Metadata: Metadata{
			SourceURL:    sourceURL,
			DisplayName:  displayName,
			ExtractedAt:  time.Now().UTC(),
			PageCount:    len(primary),
			HasSecondary: len(secondary) > 0,
		},
		PrimaryContent:   primary,
		SecondaryContent: secondary,
	}
}

// Homepage returns the record's homepage page, or nil when absent.
func (r *KnowledgeRecord) Homepage() *PageRecord {
	for i := range r.PrimaryContent {
		if r.PrimaryContent[i].PageType == PageTypeHomepage {
			return &r.PrimaryContent[i]
		}
	}
	return nil
}
