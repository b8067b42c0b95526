package entity

import "time"

type PageType string

const (
	PageTypeHomepage PageType = "homepage"
	PageTypeSubpage  PageType = "subpage"
)

// Section is one heading-delimited slice of a cleaned page.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// PageRecord is the structured result of fetching and cleaning one page.
// Immutable once produced.
type PageRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CleanedText string    `json:"cleaned_text"`
	Sections    []Section `json:"sections"`
	PageType    PageType  `json:"page_type"`
	FetchedAt   time.Time `json:"fetched_at"`
}
