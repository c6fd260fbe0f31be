package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreContentQuality(t *testing.T) {
	t.Parallel()

	t.Run("empty fragment scores zero", func(t *testing.T) {
		t.Parallel()
		q := ScoreContentQuality("")
		assert.Zero(t, q.Score)
		assert.Zero(t, q.WordCount)
		assert.Zero(t, q.ParagraphCount)
	})

	t.Run("single short paragraph scores low", func(t *testing.T) {
		t.Parallel()
		q := ScoreContentQuality("<p>Just a headline</p>")
		assert.Equal(t, 1, q.ParagraphCount)
		assert.Equal(t, 3, q.WordCount)
		assert.Less(t, q.Score, MinQualityScore)
	})

	t.Run("long article scores high", func(t *testing.T) {
		t.Parallel()
		sentence := strings.Repeat("substantial reporting with real sentences here ", 20)
		var b strings.Builder
		for i := 0; i < 6; i++ {
			b.WriteString("<p>" + sentence + "</p>")
		}
		q := ScoreContentQuality(b.String())
		assert.Equal(t, 6, q.ParagraphCount)
		assert.GreaterOrEqual(t, q.Score, 90)
	})

	t.Run("tags do not count as words", func(t *testing.T) {
		t.Parallel()
		q := ScoreContentQuality("<p>one <b>two</b> three</p>")
		assert.Equal(t, 3, q.WordCount)
	})

	t.Run("score never exceeds 100", func(t *testing.T) {
		t.Parallel()
		huge := "<p>" + strings.Repeat("word ", 2000) + "</p>"
		q := ScoreContentQuality(strings.Repeat(huge, 10))
		assert.LessOrEqual(t, q.Score, 100)
	})
}
