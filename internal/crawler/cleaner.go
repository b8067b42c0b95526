package crawler

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/pkg/utils"
)

const (
	maxSectionsPerPage = 10
	maxSectionChars    = 1000
	maxPageChars       = 3000
	minHeadingChars    = 3
)

// strippedElements are removed wholesale before text extraction.
var strippedElements = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true,
	"header": true, "aside": true, "noscript": true, "iframe": true,
	"svg": true, "form": true,
}

// noiseMarkers flag elements whose class or id suggests chrome rather than
// content (cookie banners, popups, ad slots, share widgets).
var noiseMarkers = []string{
	"cookie", "popup", "modal", "advertisement", "ad-", "sidebar",
	"newsletter", "subscribe", "social", "share", "comment",
}

// CleanedPage is the pure-transform output of CleanHTML. The caller supplies
// URL and fetch time when building the PageRecord.
type CleanedPage struct {
	Title       string
	Description string
	Text        string
	Sections    []entity.Section
}

type fragment struct {
	heading bool
	text    string
}

// CleanHTML strips noise from raw HTML and extracts the title, the meta
// description, the whitespace-collapsed body text, and heading-delimited
// sections. A page with no headings yields a single untitled section holding
// the whole body; a page with no extractable text yields no sections.
func CleanHTML(body []byte) (*CleanedPage, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	page := &CleanedPage{}
	var firstH1 string
	var frags []fragment
	var pending strings.Builder

	flushPending := func() {
		if text := normalizeSpace(pending.String()); text != "" {
			frags = append(frags, fragment{text: text})
		}
		pending.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if strippedElements[n.Data] || hasNoiseMarker(n) {
				return
			}
			switch n.Data {
			case "title":
				if page.Title == "" {
					page.Title = normalizeSpace(textOf(n))
				}
				return
			case "meta":
				if strings.EqualFold(attrValue(n, "name"), "description") {
					page.Description = strings.TrimSpace(attrValue(n, "content"))
				}
				return
			case "h1", "h2", "h3":
				heading := normalizeSpace(textOf(n))
				if n.Data == "h1" && firstH1 == "" {
					firstH1 = heading
				}
				flushPending()
				frags = append(frags, fragment{heading: true, text: heading})
				return
			}
		}
		if n.Type == html.TextNode {
			pending.WriteString(n.Data)
			pending.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flushPending()

	if page.Title == "" {
		page.Title = firstH1
	}

	page.Text = utils.Truncate(joinFragments(frags), maxPageChars)
	page.Sections = buildSections(frags, page.Text)
	return page, nil
}

// buildSections groups body fragments under the most recent heading. When no
// headed section yields content, the whole body becomes one untitled section.
func buildSections(frags []fragment, wholeText string) []entity.Section {
	var sections []entity.Section
	var heading string
	var body strings.Builder
	inSection := false

	flush := func() {
		if !inSection {
			return
		}
		if text := normalizeSpace(body.String()); text != "" && len(sections) < maxSectionsPerPage {
			sections = append(sections, entity.Section{
				Heading: heading,
				Body:    utils.Truncate(text, maxSectionChars),
			})
		}
		body.Reset()
	}

	for _, f := range frags {
		if f.heading {
			flush()
			if len(f.text) < minHeadingChars {
				inSection = false
				continue
			}
			heading = f.text
			inSection = true
			continue
		}
		if inSection {
			body.WriteString(f.text)
			body.WriteByte(' ')
		}
	}
	flush()

	if len(sections) == 0 && wholeText != "" {
		sections = append(sections, entity.Section{Body: utils.Truncate(wholeText, maxSectionChars)})
	}
	return sections
}

func joinFragments(frags []fragment) string {
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		if f.text != "" {
			parts = append(parts, f.text)
		}
	}
	return strings.Join(parts, " ")
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func hasNoiseMarker(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" && attr.Key != "id" {
			continue
		}
		value := strings.ToLower(attr.Val)
		for _, marker := range noiseMarkers {
			if strings.Contains(value, marker) {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
