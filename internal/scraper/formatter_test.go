package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trxrg/bulutlar-sub002/internal/models"
)

func TestFormatPost(t *testing.T) {
	t.Parallel()

	t.Run("text only", func(t *testing.T) {
		t.Parallel()

		out := FormatPost(models.ExtractedPost{Text: "Just the text"})
		assert.Equal(t, "Just the text", out)
	})

	t.Run("parseable timestamp is localized", func(t *testing.T) {
		t.Parallel()

		out := FormatPost(models.ExtractedPost{
			Text:      "With a date",
			Timestamp: "2024-03-05T10:30:00Z",
		})
		assert.Equal(t, "With a date\n\nPosted: Mar 5, 2024, 10:30 AM", out)
	})

	t.Run("unparseable timestamp falls back to raw string", func(t *testing.T) {
		t.Parallel()

		out := FormatPost(models.ExtractedPost{
			Text:      "With a date",
			Timestamp: "sometime recently",
		})
		assert.Equal(t, "With a date\n\nPosted: sometime recently", out)
	})

	t.Run("quoted block with author and username", func(t *testing.T) {
		t.Parallel()

		out := FormatPost(models.ExtractedPost{
			Text: "Primary",
			QuotedPost: &models.QuotedPost{
				Text:      "Quoted words",
				Author:    "Jane Doe",
				Username:  "@jane",
				Timestamp: "2024-01-01T00:00:00Z",
			},
		})
		assert.Equal(t,
			"Primary\n\n--- Quoted post ---\nJane Doe (@jane)\nQuoted words\nPosted: Jan 1, 2024, 12:00 AM",
			out)
	})

	t.Run("quoted block with username only", func(t *testing.T) {
		t.Parallel()

		out := FormatPost(models.ExtractedPost{
			Text: "Primary",
			QuotedPost: &models.QuotedPost{
				Text:     "Quoted words",
				Username: "@jane",
			},
		})
		assert.Equal(t, "Primary\n\n--- Quoted post ---\n@jane\nQuoted words", out)
	})

	t.Run("quoted block without authorship", func(t *testing.T) {
		t.Parallel()

		out := FormatPost(models.ExtractedPost{
			Text:       "Primary",
			QuotedPost: &models.QuotedPost{Text: "Anonymous quote"},
		})
		assert.Equal(t, "Primary\n\n--- Quoted post ---\nAnonymous quote", out)
	})
}
