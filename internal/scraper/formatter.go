package scraper

import (
	"strings"

	"github.com/araddon/dateparse"

	"github.com/trxrg/bulutlar-sub002/internal/models"
)

const displayTimeLayout = "Jan 2, 2006, 3:04 PM"

// FormatPost composes the primary and quoted post data into one display
// string: primary text, a "Posted:" line when a timestamp is present, then a
// labeled quoted block.
func FormatPost(post models.ExtractedPost) string {
	var b strings.Builder
	b.WriteString(post.Text)

	if post.Timestamp != "" {
		b.WriteString("\n\nPosted: ")
		b.WriteString(displayTimestamp(post.Timestamp))
	}

	if q := post.QuotedPost; q != nil {
		b.WriteString("\n\n--- Quoted post ---\n")
		if line := quotedAuthorLine(q); line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(q.Text)
		if q.Timestamp != "" {
			b.WriteString("\nPosted: ")
			b.WriteString(displayTimestamp(q.Timestamp))
		}
	}

	return b.String()
}

func quotedAuthorLine(q *models.QuotedPost) string {
	switch {
	case q.Author != "" && q.Username != "":
		return q.Author + " (" + q.Username + ")"
	case q.Author != "":
		return q.Author
	case q.Username != "":
		return q.Username
	default:
		return ""
	}
}

// displayTimestamp renders the timestamp in a readable localized form,
// falling back to the raw string when it does not parse as a date.
func displayTimestamp(ts string) string {
	parsed, err := dateparse.ParseAny(ts)
	if err != nil {
		return ts
	}
	return parsed.Format(displayTimeLayout)
}
