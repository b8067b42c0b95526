package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/chatsmith/internal/entity"
)

func testRecord() *entity.KnowledgeRecord {
	return entity.NewKnowledgeRecord("https://example.com", "Example Inc",
		[]entity.PageRecord{
			{
				URL:      "https://example.com",
				Title:    "Example Inc",
				PageType: entity.PageTypeHomepage,
				Sections: []entity.Section{
					{Heading: "Welcome", Body: "We are Example."},
				},
			},
			{
				URL:         "https://example.com/about",
				Title:       "About",
				PageType:    entity.PageTypeSubpage,
				CleanedText: "Founded in 2001 by two engineers.",
			},
			{
				URL:         "https://example.com/services",
				Title:       "Services",
				PageType:    entity.PageTypeSubpage,
				CleanedText: "Consulting and training.",
			},
		},
		[]entity.SearchResult{
			{Query: "pricing", Snippet: "Plans start at $10.", SourceURL: "https://reviews.example"},
		})
}

func TestBuildIncludesAllBlocksInOrder(t *testing.T) {
	out := NewContextBuilder().Build(testRecord(), 0)

	assert.Contains(t, out, "=== Example Inc ===")
	assert.Contains(t, out, "Source: https://example.com")
	assert.Contains(t, out, "### Welcome")
	assert.Contains(t, out, "Founded in 2001")
	assert.Contains(t, out, "Consulting and training")
	assert.Contains(t, out, "[search: pricing]")
	assert.Contains(t, out, "Plans start at $10.")

	// Homepage before subpages, subpages before secondary content.
	homeIdx := strings.Index(out, "### Welcome")
	aboutIdx := strings.Index(out, "Founded in 2001")
	searchIdx := strings.Index(out, "[search: pricing]")
	assert.Less(t, homeIdx, aboutIdx)
	assert.Less(t, aboutIdx, searchIdx)
}

func TestBuildDropsTrailingBlocksOverBudget(t *testing.T) {
	record := testRecord()
	full := NewContextBuilder().Build(record, 0)

	// A budget just above the mandatory part keeps header and homepage but
	// drops the rest.
	out := NewContextBuilder().Build(record, 200)

	assert.Contains(t, out, "=== Example Inc ===")
	assert.Contains(t, out, "### Welcome")
	assert.NotContains(t, out, "[search: pricing]")
	assert.Less(t, len(out), len(full))
}

func TestBuildHomepageAlwaysIncluded(t *testing.T) {
	// Even an absurdly small budget keeps the mandatory blocks.
	out := NewContextBuilder().Build(testRecord(), 10)

	assert.Contains(t, out, "=== Example Inc ===")
	assert.Contains(t, out, "### Welcome")
}

func TestBuildSecondaryMarkedAsSupplementary(t *testing.T) {
	out := NewContextBuilder().Build(testRecord(), 0)

	assert.Contains(t, out, "Supplementary information from web search")
	assert.Contains(t, out, "(https://reviews.example)")
}

func TestBuildWithoutHomepage(t *testing.T) {
	record := entity.NewKnowledgeRecord("https://example.com", "Example",
		[]entity.PageRecord{
			{URL: "https://example.com/about", Title: "About", PageType: entity.PageTypeSubpage, CleanedText: "Text."},
		}, nil)

	out := NewContextBuilder().Build(record, 0)
	assert.Contains(t, out, "=== Example ===")
	assert.Contains(t, out, "## About")
}
