package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
)

// PageParts holds the raw output of main-content location before the service
// normalizes it into an ExtractedPage.
type PageParts struct {
	Title            string
	Description      string
	Author           string
	PublishedDate    string
	Content          string // sanitized HTML fragment
	UsedBodyFallback bool
}

var boldVariants = regexp.MustCompile(`(?i)<(/?)strong\b[^>]*>`)

// MainContentLocator finds the node holding the article body and the
// page-level metadata. It has no failure mode of its own: it degrades through
// a selector cascade, a largest-text-block heuristic and finally the document
// body.
type MainContentLocator struct {
	whitelist *bluemonday.Policy
}

func NewMainContentLocator() *MainContentLocator {
	// Structural whitelist for the content fragment: paragraphs, line breaks
	// and bold emphasis, attributes dropped.
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "b")

	return &MainContentLocator{whitelist: policy}
}

// Locate extracts metadata and the sanitized content fragment from the tree.
func (l *MainContentLocator) Locate(tree NodeTree) PageParts {
	parts := PageParts{
		Title:         l.extractTitle(tree),
		Description:   l.extractDescription(tree),
		Author:        l.firstMatchText(tree, AuthorSelectors),
		PublishedDate: l.firstMatchText(tree, DateSelectors),
	}

	contentNode := l.findContentNode(tree, &parts)

	// A first-level heading inside the article outranks the page <title>.
	if h1 := contentNode.SelectFirst("h1"); h1 != nil {
		if heading := strings.TrimSpace(h1.Text()); heading != "" {
			parts.Title = heading
		}
	}

	fragment := boldVariants.ReplaceAllString(contentNode.InnerHTML(), "<${1}b>")
	fragment = l.whitelist.Sanitize(fragment)
	parts.Content = SanitizeParagraphs(fragment)

	return parts
}

// findContentNode runs the priority cascade, then the largest-text-block
// heuristic, then falls back to the document body.
func (l *MainContentLocator) findContentNode(tree NodeTree, parts *PageParts) Node {
	for _, selector := range ContentSelectors {
		if node := tree.SelectFirst(selector); node != nil {
			return node
		}
	}

	if node := largestTextBlock(tree); node != nil {
		return node
	}

	parts.UsedBodyFallback = true
	return tree.Body()
}

// largestTextBlock scans every block-level container and returns the one with
// the greatest rendered text length, or nil when none clears the minimum
// floor.
func largestTextBlock(tree NodeTree) Node {
	var best Node
	bestLen := 0

	for _, node := range tree.SelectAll(BlockContainerTags) {
		textLen := utf8.RuneCountInString(strings.TrimSpace(node.Text()))
		if textLen < MinContentTextLen {
			continue
		}
		if textLen > bestLen {
			best = node
			bestLen = textLen
		}
	}
	return best
}

func (l *MainContentLocator) extractTitle(tree NodeTree) string {
	if node := tree.SelectFirst("title"); node != nil {
		return strings.TrimSpace(node.Text())
	}
	return ""
}

func (l *MainContentLocator) extractDescription(tree NodeTree) string {
	for _, name := range DescriptionMetaNames {
		if v := metaContent(tree, name); v != "" {
			return v
		}
	}
	return ""
}

// firstMatchText walks an ordered selector list and returns the first
// non-empty value. No scoring: first match wins.
func (l *MainContentLocator) firstMatchText(tree NodeTree, selectors []string) string {
	for _, selector := range selectors {
		node := tree.SelectFirst(selector)
		if node == nil {
			continue
		}
		value := nodeValue(node)
		if value != "" {
			return value
		}
	}
	return ""
}

// nodeValue reads a meta tag's content, a time element's datetime, or the
// node's text, in that order.
func nodeValue(node Node) string {
	if node.TagName() == "meta" {
		return strings.TrimSpace(node.Attr("content"))
	}
	if dt := strings.TrimSpace(node.Attr("datetime")); dt != "" {
		return dt
	}
	return strings.TrimSpace(node.Text())
}

// metaContent finds a meta tag by property or name.
func metaContent(tree NodeTree, key string) string {
	for _, selector := range []string{
		"meta[property='" + key + "']",
		"meta[name='" + key + "']",
	} {
		if node := tree.SelectFirst(selector); node != nil {
			if content := strings.TrimSpace(node.Attr("content")); content != "" {
				return content
			}
		}
	}
	return ""
}

// ReadabilityFallback runs go-readability over the raw HTML when the located
// fragment looks unreliable. Best effort: any failure leaves the parts
// untouched.
func (l *MainContentLocator) ReadabilityFallback(rawHTML, pageURL string, parts *PageParts) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		log.Debug().Str("url", pageURL).Err(err).Msg("readability fallback failed")
		return
	}

	if article.Content != "" {
		fragment := boldVariants.ReplaceAllString(article.Content, "<${1}b>")
		fragment = l.whitelist.Sanitize(fragment)
		if sanitized := SanitizeParagraphs(fragment); sanitized != "" {
			parts.Content = sanitized
		}
	}
	if parts.Title == "" && article.Title != "" {
		parts.Title = article.Title
	}
	if parts.Author == "" && article.Byline != "" {
		parts.Author = article.Byline
	}
}
