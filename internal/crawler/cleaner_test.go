package crawler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTMLStripsNoise(t *testing.T) {
	page, err := CleanHTML([]byte(`
		<html><head><title>Acme Corp</title>
		<meta name="description" content="We make anvils.">
		<script>alert("x")</script>
		<style>body { color: red }</style>
		</head><body>
		<nav><a href="/about">About</a></nav>
		<div class="cookie-banner">Accept cookies</div>
		<div id="newsletter-popup">Subscribe now</div>
		<h2>What we do</h2>
		<p>We manufacture the finest anvils in the western territories.</p>
		<footer>Copyright Acme</footer>
		</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", page.Title)
	assert.Equal(t, "We make anvils.", page.Description)
	assert.Contains(t, page.Text, "finest anvils")
	assert.NotContains(t, page.Text, "alert")
	assert.NotContains(t, page.Text, "Accept cookies")
	assert.NotContains(t, page.Text, "Subscribe now")
	assert.NotContains(t, page.Text, "Copyright")
}

func TestCleanHTMLSections(t *testing.T) {
	page, err := CleanHTML([]byte(`
		<html><body>
		<h1>Acme</h1>
		<p>Intro text about the company.</p>
		<h2>Services</h2>
		<p>Anvil repair and delivery.</p>
		<h2>Contact</h2>
		<p>Write to acme@example.com.</p>
		</body></html>`))
	require.NoError(t, err)

	require.Len(t, page.Sections, 3)
	assert.Equal(t, "Acme", page.Sections[0].Heading)
	assert.Contains(t, page.Sections[0].Body, "Intro text")
	assert.Equal(t, "Services", page.Sections[1].Heading)
	assert.Contains(t, page.Sections[1].Body, "Anvil repair")
	assert.Equal(t, "Contact", page.Sections[2].Heading)
}

func TestCleanHTMLTitleFallsBackToH1(t *testing.T) {
	page, err := CleanHTML([]byte(`<html><body><h1>Acme Anvils</h1><p>Content.</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Acme Anvils", page.Title)
}

func TestCleanHTMLNoHeadingsYieldsUntitledSection(t *testing.T) {
	page, err := CleanHTML([]byte(`<html><body><p>Just a paragraph of plain content.</p></body></html>`))
	require.NoError(t, err)

	require.Len(t, page.Sections, 1)
	assert.Empty(t, page.Sections[0].Heading)
	assert.Contains(t, page.Sections[0].Body, "plain content")
}

func TestCleanHTMLEmptyPage(t *testing.T) {
	page, err := CleanHTML([]byte(`<html><body><script>x()</script></body></html>`))
	require.NoError(t, err)

	assert.Empty(t, page.Text)
	assert.Empty(t, page.Sections)
}

func TestCleanHTMLTruncatesLongPages(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	page, err := CleanHTML([]byte("<html><body><p>" + long + "</p></body></html>"))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(page.Text), maxPageChars)
	for _, s := range page.Sections {
		assert.LessOrEqual(t, len(s.Body), maxSectionChars)
	}
}

func TestCleanHTMLTruncationKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("héllo wörld größe ", 300)
	page, err := CleanHTML([]byte("<html><body><p>" + long + "</p></body></html>"))
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(page.Text))
	assert.LessOrEqual(t, len(page.Text), maxPageChars)
	for _, s := range page.Sections {
		assert.True(t, utf8.ValidString(s.Body))
	}
}

func TestCleanHTMLSectionCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		b.WriteString("<h2>Heading</h2><p>Some body text here.</p>")
	}
	b.WriteString("</body></html>")

	page, err := CleanHTML([]byte(b.String()))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(page.Sections), maxSectionsPerPage)
}
