package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoqueryNodeTree(t *testing.T) {
	t.Parallel()

	tree := mustTree(t, `<html><body>
		<article id="first"><p>one</p><p>two</p></article>
		<article id="second"><time datetime="2024-01-01">Jan 1</time></article>
	</body></html>`)

	t.Run("select first", func(t *testing.T) {
		t.Parallel()

		node := tree.SelectFirst("article")
		require.NotNil(t, node)
		assert.Equal(t, "first", node.Attr("id"))
		assert.Equal(t, "article", node.TagName())
	})

	t.Run("select all preserves document order", func(t *testing.T) {
		t.Parallel()

		nodes := tree.SelectAll("article")
		require.Len(t, nodes, 2)
		assert.Equal(t, "first", nodes[0].Attr("id"))
		assert.Equal(t, "second", nodes[1].Attr("id"))
	})

	t.Run("missing selector yields nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, tree.SelectFirst(".absent"))
		assert.Empty(t, tree.SelectAll(".absent"))
	})

	t.Run("scoped queries exclude the node itself", func(t *testing.T) {
		t.Parallel()

		article := tree.SelectFirst("article")
		require.NotNil(t, article)
		assert.Nil(t, article.SelectFirst("article"))
		assert.Len(t, article.SelectAll("p"), 2)
	})

	t.Run("inner html", func(t *testing.T) {
		t.Parallel()

		article := tree.SelectFirst("#first")
		require.NotNil(t, article)
		assert.Equal(t, "<p>one</p><p>two</p>", article.InnerHTML())
	})

	t.Run("text concatenates descendants", func(t *testing.T) {
		t.Parallel()

		article := tree.SelectFirst("#first")
		require.NotNil(t, article)
		assert.Equal(t, "onetwo", article.Text())
	})

	t.Run("same node identity", func(t *testing.T) {
		t.Parallel()

		a := tree.SelectFirst("#first")
		b := tree.SelectAll("article")[0]
		c := tree.SelectFirst("#second")
		assert.True(t, a.Same(b))
		assert.False(t, a.Same(c))
	})

	t.Run("missing attribute is empty", func(t *testing.T) {
		t.Parallel()

		article := tree.SelectFirst("#first")
		require.NotNil(t, article)
		assert.Equal(t, "", article.Attr("data-missing"))
	})

	t.Run("body accessor", func(t *testing.T) {
		t.Parallel()

		body := tree.Body()
		require.NotNil(t, body)
		assert.Equal(t, "body", body.TagName())
	})
}
