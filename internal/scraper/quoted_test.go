package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectQuotedPost(t *testing.T) {
	t.Parallel()

	detector := NewQuotedPostDetector()

	t.Run("distinct sibling post is accepted", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">Short update</div>
				<time datetime="2024-01-10T12:00:00Z">Jan 10</time>
			</article>
			<article data-testid="tweet">
				<div data-testid="tweetText">Completely unrelated longer announcement about a product launch</div>
				<time datetime="2024-01-09T08:00:00Z">Jan 9</time>
			</article>
		</body></html>`)

		post, trace := detector.Detect(tree, "Short update")
		require.NotNil(t, post)
		assert.Equal(t, "Completely unrelated longer announcement about a product launch", post.Text)
		assert.NotEmpty(t, trace.Candidates)
	})

	t.Run("identical-only candidate returns nil", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">The only text on this page worth extracting today</div>
			</article>
			<div data-testid="quoteTweet">
				<div data-testid="tweetText">The only text on this page worth extracting today</div>
			</div>
		</body></html>`)

		post, _ := detector.Detect(tree, "The only text on this page worth extracting today")
		assert.Nil(t, post)
	})

	t.Run("quote container found by selector cascade", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">Primary thoughts about the morning coffee ritual</div>
				<div data-testid="quoteTweet">
					<span>Quoted Author</span>
					<span>@quoted</span>
					<div data-testid="tweetText">Yesterday we shipped the big release notes everyone waited for</div>
					<time datetime="2024-03-01T10:00:00Z">Mar 1</time>
				</div>
			</article>
		</body></html>`)

		post, _ := detector.Detect(tree, "Primary thoughts about the morning coffee ritual")
		require.NotNil(t, post)
		assert.Equal(t, "Yesterday we shipped the big release notes everyone waited for", post.Text)
		assert.Equal(t, "@quoted", post.Username)
		assert.Equal(t, "2024-03-01T10:00:00Z", post.Timestamp)
	})

	t.Run("substring superset of primary is rejected", func(t *testing.T) {
		t.Parallel()

		primary := "A primary post about distributed systems"
		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">A primary post about distributed systems</div>
			</article>
			<div data-testid="quoteTweet">
				<div data-testid="tweetText">A primary post about distributed systems and more trailing junk</div>
			</div>
		</body></html>`)

		post, _ := detector.Detect(tree, primary)
		// superset contains the primary verbatim, so every strategy must reject it
		assert.Nil(t, post)
	})

	t.Run("near-duplicate above threshold is rejected", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">launch day for our new search product today</div>
			</article>
			<div data-testid="quoteTweet">
				<div data-testid="tweetText">launch day arrived our new search product today</div>
			</div>
		</body></html>`)

		post, _ := detector.Detect(tree, "launch day for our new search product today")
		assert.Nil(t, post)
	})

	t.Run("too-short candidate is rejected", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">A perfectly reasonable primary post text</div>
			</article>
			<div data-testid="quoteTweet">
				<div data-testid="tweetText">ok</div>
			</div>
		</body></html>`)

		post, _ := detector.Detect(tree, "A perfectly reasonable primary post text")
		assert.Nil(t, post)
	})

	t.Run("empty primary returns nil without scanning", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body><article data-testid="tweet"></article></body></html>`)
		post, trace := detector.Detect(tree, "   ")
		assert.Nil(t, post)
		assert.Empty(t, trace.Candidates)
	})

	t.Run("signal scan finds unmarked embedded post", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<div data-testid="tweetText">Primary short note about lunchtime meetings</div>
			<div>
				<span>@someone</span> wrote an extensive report covering quarterly results and hiring plans for next year
				<time datetime="2024-04-04T09:00:00Z">Apr 4</time>
			</div>
		</body></html>`)

		post, _ := detector.Detect(tree, "Primary short note about lunchtime meetings")
		require.NotNil(t, post)
		assert.Contains(t, post.Text, "quarterly results")
	})

	t.Run("quoted post never nests further", func(t *testing.T) {
		t.Parallel()

		tree := mustTree(t, `<html><body>
			<article data-testid="tweet">
				<div data-testid="tweetText">Primary takes the top spot on this page</div>
				<div data-testid="quoteTweet">
					<div data-testid="tweetText">First-level quote with plenty of distinct wording inside it</div>
					<div data-testid="quoteTweet">
						<div data-testid="tweetText">Second-level quote that must never surface anywhere</div>
					</div>
				</div>
			</article>
		</body></html>`)

		post, _ := detector.Detect(tree, "Primary takes the top spot on this page")
		require.NotNil(t, post)
		// the QuotedPost type has no further nesting by construction; the
		// accepted text is the first-level quote
		assert.Contains(t, post.Text, "First-level quote")
	})
}

func TestValidateCandidate(t *testing.T) {
	t.Parallel()

	primary := "the primary post text used for validation"

	assert.False(t, validateCandidate("", primary, 0.7))
	assert.False(t, validateCandidate("short", primary, 0.7))
	assert.False(t, validateCandidate(primary, primary, 0.7))
	assert.False(t, validateCandidate("prefix "+primary, primary, 0.7))
	assert.False(t, validateCandidate("the primary post", primary, 0.7))
	assert.True(t, validateCandidate("an entirely different announcement altogether", primary, 0.7))
}
