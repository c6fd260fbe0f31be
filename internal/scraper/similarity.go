package scraper

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextSimilarity computes the lexical overlap between two text spans as
// |words(a) ∩ words(b)| / max(|words(a)|, |words(b)|) over lowercase word
// sets, ignoring tokens of length <= 2. It returns a value in [0,1], is
// symmetric, and returns 0 when either side yields no eligible tokens.
func TextSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shared := 0
	for w := range wordsA {
		if wordsB[w] {
			shared++
		}
	}

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	return float64(shared) / float64(larger)
}

// wordSet tokenizes text into a set of lowercase words, discarding short
// tokens. Sets, not bags: duplicates do not inflate the overlap.
func wordSet(text string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= SimilarityMinTokenLen {
			continue
		}
		set[f] = true
	}
	return set
}
