package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoverBase = "https://example.com"

func TestDiscoverLinksRanksPriorityPages(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/random-page">Something</a>
		<a href="/about">About us</a>
		<a href="/deep/nested/path/here">Deep</a>
		</body></html>`)

	links := DiscoverLinks(body, discoverBase, 10)

	require.Len(t, links, 3)
	assert.Equal(t, "https://example.com/about", links[0])
}

func TestDiscoverLinksNavBonus(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/alpha">Alpha</a>
		<nav><a href="/beta">Beta</a></nav>
		</body></html>`)

	links := DiscoverLinks(body, discoverBase, 10)

	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/beta", links[0])
}

func TestDiscoverLinksTieKeepsDocumentOrder(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/alpha">Alpha</a>
		<a href="/delta">Delta</a>
		<a href="/gamma">Gamma</a>
		</body></html>`)

	links := DiscoverLinks(body, discoverBase, 10)

	assert.Equal(t, []string{
		"https://example.com/alpha",
		"https://example.com/delta",
		"https://example.com/gamma",
	}, links)
}

func TestDiscoverLinksFiltersAndDedups(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/about">About</a>
		<a href="/about/">About again</a>
		<a href="/about?ref=nav">About with query</a>
		<a href="https://other.com/about">External</a>
		<a href="/login">Login</a>
		<a href="/files/brochure.pdf">Brochure</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="/">Home</a>
		</body></html>`)

	links := DiscoverLinks(body, discoverBase, 10)

	assert.Equal(t, []string{"https://example.com/about"}, links)
}

func TestDiscoverLinksCap(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/p1">1</a><a href="/p2">2</a><a href="/p3">3</a>
		<a href="/p4">4</a><a href="/p5">5</a>
		</body></html>`)

	links := DiscoverLinks(body, discoverBase, 2)
	assert.Len(t, links, 2)

	assert.Nil(t, DiscoverLinks(body, discoverBase, 0))
}

func TestDiscoverLinksRelativeResolution(t *testing.T) {
	body := []byte(`<html><body><a href="contact">Contact</a></body></html>`)

	links := DiscoverLinks(body, "https://example.com/sub/page", 10)

	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/sub/contact", links[0])
}
