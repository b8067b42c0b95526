package usecase

import (
	"fmt"
	"strings"

	"github.com/user/chatsmith/internal/entity"
)

// ContextBuilder renders a knowledge record into the plain-text context block
// handed to a downstream chat model.
type ContextBuilder interface {
	// Build renders the record within maxChars. The header and the homepage
	// block are always included; trailing blocks are dropped whole when the
	// budget runs out. maxChars <= 0 means no limit.
	Build(record *entity.KnowledgeRecord, maxChars int) string
}

type contextBuilder struct{}

func NewContextBuilder() ContextBuilder {
	return &contextBuilder{}
}

func (contextBuilder) Build(record *entity.KnowledgeRecord, maxChars int) string {
	header := fmt.Sprintf("=== %s ===\nSource: %s\nPages: %d",
		record.Metadata.DisplayName, record.Metadata.SourceURL, record.Metadata.PageCount)

	mandatory := []string{header}
	if home := record.Homepage(); home != nil {
		mandatory = append(mandatory, pageBlock(home))
	}

	var optional []string
	for i := range record.PrimaryContent {
		page := &record.PrimaryContent[i]
		if page.PageType == entity.PageTypeHomepage {
			continue
		}
		optional = append(optional, pageBlock(page))
	}
	if len(record.SecondaryContent) > 0 {
		optional = append(optional, secondaryBlock(record.SecondaryContent))
	}

	out := strings.Join(mandatory, "\n\n")
	for _, block := range optional {
		if maxChars > 0 && len(out)+len(block)+2 > maxChars {
			break
		}
		out += "\n\n" + block
	}
	return out
}

func pageBlock(page *entity.PageRecord) string {
	var b strings.Builder
	title := page.Title
	if title == "" {
		title = page.URL
	}
	fmt.Fprintf(&b, "## %s\n%s", title, page.URL)
	if page.Description != "" {
		b.WriteString("\n")
		b.WriteString(page.Description)
	}
	if len(page.Sections) > 0 {
		for _, section := range page.Sections {
			b.WriteString("\n\n")
			if section.Heading != "" {
				b.WriteString("### ")
				b.WriteString(section.Heading)
				b.WriteString("\n")
			}
			b.WriteString(section.Body)
		}
	} else if page.CleanedText != "" {
		b.WriteString("\n\n")
		b.WriteString(page.CleanedText)
	}
	return b.String()
}

// secondaryBlock renders fallback search results with an explicit provenance
// marker so the downstream model can weight them below first-party content.
func secondaryBlock(results []entity.SearchResult) string {
	var b strings.Builder
	b.WriteString("--- Supplementary information from web search (verify against the site) ---")
	for _, r := range results {
		fmt.Fprintf(&b, "\n\n[search: %s]\n%s", r.Query, r.Snippet)
		if r.SourceURL != "" {
			fmt.Fprintf(&b, "\n(%s)", r.SourceURL)
		}
	}
	return b.String()
}
