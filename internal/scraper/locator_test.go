package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTree(t *testing.T, rawHTML string) NodeTree {
	t.Helper()
	tree, err := ParseTree(rawHTML)
	require.NoError(t, err)
	return tree
}

func TestLocateMainContent(t *testing.T) {
	t.Parallel()

	locator := NewMainContentLocator()

	t.Run("article outranks larger generic containers", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>Page</title></head><body>
			<div>`+strings.Repeat("filler text ", 100)+`</div>
			<article><p>The article body.</p></article>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "<p>The article body.</p>", parts.Content)
		assert.False(t, parts.UsedBodyFallback)
	})

	t.Run("falls back to largest text block", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("abcde ", 25) // 150 chars
		tree, err := ParseTree(`<html><head><title>Page</title></head><body>
			<div>short</div>
			<div>` + long + `</div>
		</body></html>`)
		require.NoError(t, err)

		parts := locator.Locate(tree)
		assert.Contains(t, parts.Content, "abcde")
		assert.False(t, parts.UsedBodyFallback)
	})

	t.Run("falls back to body below the floor", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>Page</title></head><body>
			<div>tiny</div>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.True(t, parts.UsedBodyFallback)
		assert.Contains(t, parts.Content, "tiny")
	})

	t.Run("in-article heading overrides page title", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>Browser Title</title></head><body>
			<article><h1>Embedded Heading</h1><p>Body.</p></article>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "Embedded Heading", parts.Title)
	})

	t.Run("page title kept when article has no heading", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>Browser Title</title></head><body>
			<article><p>Body only.</p></article>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "Browser Title", parts.Title)
	})

	t.Run("extracts metadata independently of content", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head>
			<title>T</title>
			<meta property="og:description" content="A page about things.">
			<meta name="author" content="Jane Writer">
			<meta property="article:published_time" content="2024-02-01T09:00:00Z">
		</head><body><article><p>x</p></article></body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "A page about things.", parts.Description)
		assert.Equal(t, "Jane Writer", parts.Author)
		assert.Equal(t, "2024-02-01T09:00:00Z", parts.PublishedDate)
	})

	t.Run("author selector list is ordered first match wins", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>T</title></head><body>
			<article><p>x</p></article>
			<span class="byline">Byline Name</span>
			<span class="author">Class Author</span>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "Class Author", parts.Author)
	})

	t.Run("strips markup outside the whitelist", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>T</title></head><body>
			<article><p>keep <strong>bold</strong> <a href="/x">link text</a><img src="a.png"></p></article>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "<p>keep <b>bold</b> link text</p>", parts.Content)
	})

	t.Run("time element datetime preferred over its text", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><head><title>T</title></head><body>
			<article><p>x</p></article>
			<time datetime="2023-12-24T08:00:00Z">Dec 24</time>
		</body></html>`)

		parts := locator.Locate(tree)
		assert.Equal(t, "2023-12-24T08:00:00Z", parts.PublishedDate)
	})
}
