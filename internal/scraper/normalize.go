// Package scraper provides text normalization applied to every leaf string
// field before it leaves the extraction pipeline.
package scraper

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRuns     = regexp.MustCompile(` {2,}`)
	newlinePad    = regexp.MustCompile(` *\n *`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText collapses whitespace runs, collapses blank-line runs, strips
// non-printable characters and trims the ends. Idempotent.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune('\n')
		case r == '\t' || r == '\r' || r == ' ':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		case !unicode.IsPrint(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	cleaned := spaceRuns.ReplaceAllString(b.String(), " ")
	cleaned = newlinePad.ReplaceAllString(cleaned, "\n")
	cleaned = blankLineRuns.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}

// ContainsAny checks if a string contains any of the substrings (case-insensitive).
func ContainsAny(s string, substrings []string) bool {
	sLower := strings.ToLower(s)
	for _, substr := range substrings {
		if strings.Contains(sLower, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// IsCloudflareBlock checks if the error indicates Cloudflare blocking.
func IsCloudflareBlock(err error) bool {
	if err == nil {
		return false
	}
	return ContainsAny(err.Error(), CloudflarePatterns)
}
