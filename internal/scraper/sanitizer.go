package scraper

import (
	"regexp"
	"strings"
)

var (
	paragraphMarker = regexp.MustCompile(`(?i)<p\b[^>]*>|</p\s*>`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	breakVariants   = regexp.MustCompile(`(?i)<br\s*/?>`)
	breakOnlyPara   = regexp.MustCompile(`<p>(?:\s|<br/>)+</p>`)
)

// SanitizeParagraphs repairs paragraph nesting and whitespace in an extracted
// content fragment. It is total over all inputs and idempotent.
//
// The fragment is treated as a stream of paragraph-open, paragraph-close and
// text tokens. A second open marker while a paragraph is still open implicitly
// closes the first; text appearing outside any paragraph is wrapped rather
// than discarded; an unmatched close marker is ignored; a still-open paragraph
// at end of input is flushed.
func SanitizeParagraphs(fragment string) string {
	if fragment == "" {
		return ""
	}

	var paragraphs []string
	var buf strings.Builder
	inParagraph := false

	flush := func() {
		text := collapseSpace(buf.String())
		if text != "" {
			paragraphs = append(paragraphs, "<p>"+text+"</p>")
		}
		buf.Reset()
	}

	emitOrphan := func(text string) {
		text = collapseSpace(text)
		if text != "" {
			paragraphs = append(paragraphs, "<p>"+text+"</p>")
		}
	}

	pos := 0
	for _, loc := range paragraphMarker.FindAllStringIndex(fragment, -1) {
		if text := fragment[pos:loc[0]]; text != "" {
			if inParagraph {
				buf.WriteString(text)
			} else {
				emitOrphan(text)
			}
		}

		marker := fragment[loc[0]:loc[1]]
		if strings.HasPrefix(marker, "</") {
			if inParagraph {
				flush()
				inParagraph = false
			}
			// unmatched close: ignored
		} else {
			if inParagraph {
				flush()
			}
			inParagraph = true
		}
		pos = loc[1]
	}

	if trailing := fragment[pos:]; trailing != "" {
		if inParagraph {
			buf.WriteString(trailing)
		} else {
			emitOrphan(trailing)
		}
	}
	if inParagraph {
		flush()
	}

	return cleanupParagraphs(strings.Join(paragraphs, ""))
}

// cleanupParagraphs runs the post-assembly passes: canonicalize line breaks,
// unwrap paragraphs holding only a line break, drop empty paragraphs.
func cleanupParagraphs(fragment string) string {
	fragment = breakVariants.ReplaceAllString(fragment, "<br/>")
	fragment = breakOnlyPara.ReplaceAllString(fragment, "<br/>")
	fragment = strings.ReplaceAll(fragment, "<p></p>", "")
	return fragment
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}
