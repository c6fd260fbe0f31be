package scraper

import (
	"regexp"
	"strings"
)

// ContentQuality carries confidence metrics for an extracted fragment.
type ContentQuality struct {
	Score              int // 0-100
	WordCount          int
	ParagraphCount     int
	AvgParagraphLength int
}

var paragraphSplit = regexp.MustCompile(`(?i)</p>`)

// ScoreContentQuality rates a sanitized content fragment. Low scores signal
// that the locator probably grabbed navigation chrome or a fragment of the
// real article.
func ScoreContentQuality(fragment string) ContentQuality {
	if fragment == "" {
		return ContentQuality{}
	}

	var paragraphs []string
	for _, chunk := range paragraphSplit.Split(fragment, -1) {
		text := NormalizeText(stripTags(chunk))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	wordCount := 0
	totalChars := 0
	for _, p := range paragraphs {
		wordCount += len(strings.Fields(p))
		totalChars += len(p)
	}

	avgLen := 0
	if len(paragraphs) > 0 {
		avgLen = totalChars / len(paragraphs)
	}

	return ContentQuality{
		Score:              qualityScore(wordCount, len(paragraphs), avgLen),
		WordCount:          wordCount,
		ParagraphCount:     len(paragraphs),
		AvgParagraphLength: avgLen,
	}
}

func qualityScore(wordCount, paragraphCount, avgParagraphLength int) int {
	score := 0

	switch {
	case wordCount >= 500:
		score += 40
	case wordCount >= 200:
		score += 30
	case wordCount >= 100:
		score += 20
	case wordCount >= 50:
		score += 10
	}

	switch {
	case paragraphCount >= 5:
		score += 30
	case paragraphCount >= 3:
		score += 20
	case paragraphCount >= 2:
		score += 15
	case paragraphCount >= 1:
		score += 5
	}

	switch {
	case avgParagraphLength >= 200:
		score += 30
	case avgParagraphLength >= 100:
		score += 20
	case avgParagraphLength >= 50:
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, " ")
}
