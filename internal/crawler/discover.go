package crawler

import (
	"bytes"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/user/chatsmith/pkg/utils"
)

// priorityKeywords mark pages worth crawling first, covering company,
// personal and academic site conventions.
var priorityKeywords = []string{
	"about", "about-us", "aboutus", "who-we-are",
	"services", "service", "what-we-do", "solutions",
	"products", "product", "offerings",
	"contact", "contact-us", "contactus", "get-in-touch",
	"faq", "faqs", "help", "support",
	"team", "our-team", "leadership", "people",
	"pricing", "plans", "packages",
	"features", "benefits", "why-us",
	"blog", "news", "resources",
	"careers", "jobs", "work-with-us",
	"publications", "papers", "research",
	"projects", "portfolio", "work",
	"resume", "cv", "bio", "biography",
	"talks", "speaking", "presentations",
	"courses", "teaching", "education",
	"books", "articles", "writing",
	"connect", "social", "links",
}

// skipPatterns exclude non-content pages and binary assets from discovery.
var skipPatterns = []string{
	"login", "signin", "signup", "register", "cart", "checkout",
	"account", "password", "download", ".pdf", ".jpg", ".png",
	".zip", "mailto:", "tel:", "javascript:",
}

type scoredLink struct {
	url   string
	score int
}

// DiscoverLinks extracts same-domain candidate URLs from a homepage body and
// ranks them: +10 for a priority keyword in the path or link text, +5 for a
// shallow path, +3 for nav/header placement. Ties keep first-seen document
// order. Returns at most maxLinks normalized, deduplicated URLs.
func DiscoverLinks(body []byte, baseURL string, maxLinks int) []string {
	if maxLinks <= 0 {
		return nil
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}
	baseHost := strings.ToLower(base.Host)
	normalizedBase, err := utils.NormalizeURL(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var scored []scoredLink

	var walk func(n *html.Node, inNav bool)
	walk = func(n *html.Node, inNav bool) {
		if n.Type == html.ElementNode {
			if n.Data == "nav" || n.Data == "header" {
				inNav = true
			}
			if n.Data == "a" {
				if href := attrValue(n, "href"); href != "" {
					linkText := strings.ToLower(normalizeSpace(textOf(n)))
					if link, ok := resolveCandidate(base, baseHost, normalizedBase, href, seen); ok {
						scored = append(scored, scoredLink{
							url:   link,
							score: scoreLink(link, linkText, inNav),
						})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inNav)
		}
	}
	walk(doc, false)

	// Stable sort so equal scores preserve first-seen order.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	if len(scored) > maxLinks {
		scored = scored[:maxLinks]
	}
	links := make([]string, len(scored))
	for i, s := range scored {
		links[i] = s.url
	}
	return links
}

func resolveCandidate(base *url.URL, baseHost, normalizedBase, href string, seen map[string]bool) (string, bool) {
	full, err := utils.ToAbsoluteURL(base, strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if strings.ToLower(u.Host) != baseHost {
		return "", false
	}
	lowered := strings.ToLower(full)
	for _, pattern := range skipPatterns {
		if strings.Contains(lowered, pattern) {
			return "", false
		}
	}
	normalized, err := utils.NormalizeURL(full)
	if err != nil {
		return "", false
	}
	if normalized == normalizedBase || seen[normalized] {
		return "", false
	}
	seen[normalized] = true
	return normalized, true
}

func scoreLink(link, linkText string, inNav bool) int {
	score := 0
	path := ""
	if u, err := url.Parse(link); err == nil {
		path = strings.ToLower(u.Path)
	}
	for _, keyword := range priorityKeywords {
		if strings.Contains(path, keyword) || strings.Contains(linkText, keyword) {
			score += 10
			break
		}
	}
	if pathDepth(path) <= 2 {
		score += 5
	}
	if inNav {
		score += 3
	}
	return score
}

func pathDepth(path string) int {
	depth := 0
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			depth++
		}
	}
	return depth
}
