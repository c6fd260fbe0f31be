package scraper

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/trxrg/bulutlar-sub002/internal/models"
)

// candidate is the ephemeral scoring record carried through detection. It is
// never returned to callers.
type candidate struct {
	node    Node
	text    string
	score   float64
	signals candidateSignals
}

type candidateSignals struct {
	hasUserInfo     bool
	hasTimeInfo     bool
	hasPostText     bool
	hasQuotePattern bool
}

// CandidateTrace is a diagnostic snapshot of one considered candidate.
type CandidateTrace struct {
	Strategy string
	Text     string
	Score    float64
	Accepted bool
}

// DetectionTrace records every candidate considered across all strategies,
// returned to the caller instead of being accumulated as a side effect.
type DetectionTrace struct {
	Candidates []CandidateTrace
}

func (t *DetectionTrace) add(strategy, text string, score float64, accepted bool) {
	snippet := text
	if utf8.RuneCountInString(snippet) > 80 {
		snippet = string([]rune(snippet)[:80])
	}
	t.Candidates = append(t.Candidates, CandidateTrace{
		Strategy: strategy,
		Text:     snippet,
		Score:    score,
		Accepted: accepted,
	})
}

// QuotedPostDetector finds a distinct quoted/nested post, if any, given a
// social-post page's node tree and the already-extracted primary post text.
// Strategies run in order; the first validated result wins. Absence of a
// quoted post is a normal outcome, not a failure.
// Each strategy carries its own similarity threshold; the values are not
// equal and changing one must not silently change the others.
type QuotedPostDetector struct {
	CascadeThreshold    float64
	ScanThreshold       float64
	SecondPostThreshold float64
}

func NewQuotedPostDetector() *QuotedPostDetector {
	return &QuotedPostDetector{
		CascadeThreshold:    SimThresholdCascade,
		ScanThreshold:       SimThresholdScan,
		SecondPostThreshold: SimThresholdSecondPost,
	}
}

type detectStrategy struct {
	name string
	run  func(tree NodeTree, primary string, trace *DetectionTrace) *models.QuotedPost
}

// Detect runs the strategy cascade. A nil result means no quoted post.
func (d *QuotedPostDetector) Detect(tree NodeTree, primaryText string) (*models.QuotedPost, *DetectionTrace) {
	trace := &DetectionTrace{}
	primary := NormalizeText(primaryText)
	if primary == "" {
		return nil, trace
	}

	strategies := []detectStrategy{
		{"selector-cascade", d.bySelectorCascade},
		{"signal-scan", d.bySignalScan},
		{"second-post", d.bySecondPost},
	}

	for _, strategy := range strategies {
		if post := strategy.run(tree, primary, trace); post != nil {
			log.Debug().Str("strategy", strategy.name).Msg("quoted post detected")
			return post, trace
		}
	}
	return nil, trace
}

// bySelectorCascade tries the fixed ordered list of nested-post container
// selectors. A candidate whose text duplicates the primary post verbatim gets
// two recovery attempts: an alternate-text search within the same subtree,
// then a search for a nested post-shaped descendant that is not the primary
// post itself.
func (d *QuotedPostDetector) bySelectorCascade(tree NodeTree, primary string, trace *DetectionTrace) *models.QuotedPost {
	for _, selector := range QuotedContainerSelectors {
		for _, node := range tree.SelectAll(selector) {
			post := extractPostShape(node)
			if post == nil {
				continue
			}

			if post.Text == primary {
				if alt := alternateText(node, primary); alt != "" {
					post.Text = alt
				}
			}
			if post.Text == primary {
				if nested := nestedPostShape(node, primary); nested != nil {
					post = nested
				}
			}

			ok := validateCandidate(post.Text, primary, d.CascadeThreshold)
			trace.add("selector-cascade", post.Text, 0, ok)
			if ok {
				return post
			}
		}
	}
	return nil
}

// bySignalScan enumerates every node within the plausible length window,
// scores boolean structural signals weighted toward the quote-indicator
// phrases, and attempts extraction from the top candidates in score order.
// The keyword-indicator scan is folded in as the hasQuotePattern signal.
func (d *QuotedPostDetector) bySignalScan(tree NodeTree, primary string, trace *DetectionTrace) *models.QuotedPost {
	candidates := d.scanCandidates(tree, primary)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limit := len(candidates)
	if limit > MaxScanCandidates {
		limit = MaxScanCandidates
	}

	for _, c := range candidates[:limit] {
		post := extractPostShape(c.node)
		if post == nil {
			post = &models.QuotedPost{Text: c.text}
		}

		ok := validateCandidate(post.Text, primary, d.ScanThreshold)
		trace.add("signal-scan", post.Text, c.score, ok)
		if ok {
			return post
		}
	}
	return nil
}

// scanCandidates collects and scores every plausible node in the tree.
func (d *QuotedPostDetector) scanCandidates(tree NodeTree, primary string) []candidate {
	var candidates []candidate

	for _, node := range tree.SelectAll(BlockContainerTags) {
		text := NormalizeText(node.Text())
		length := utf8.RuneCountInString(text)
		if length < MinCandidateLen || length > MaxCandidateLen {
			continue
		}
		if text == primary {
			continue
		}

		signals := candidateSignals{
			hasUserInfo:     strings.Contains(text, "@") || node.SelectFirst("[data-testid='User-Name']") != nil,
			hasTimeInfo:     node.SelectFirst("time") != nil,
			hasPostText:     node.SelectFirst("[data-testid='tweetText']") != nil,
			hasQuotePattern: hasQuoteIndicator(node, text),
		}

		score := 0.0
		if signals.hasUserInfo {
			score += 1
		}
		if signals.hasTimeInfo {
			score += 1
		}
		if signals.hasPostText {
			score += 2
		}
		if signals.hasQuotePattern {
			score += 3
		}
		if score == 0 {
			continue
		}

		candidates = append(candidates, candidate{node: node, text: text, score: score, signals: signals})
	}
	return candidates
}

// hasQuoteIndicator checks the node's visible text and accessibility label
// for a literal quoting indicator term.
func hasQuoteIndicator(node Node, text string) bool {
	if ContainsAny(text, QuoteIndicatorPhrases) {
		return true
	}
	return ContainsAny(node.Attr("aria-label"), QuoteIndicatorPhrases)
}

// bySecondPost takes the second post-shaped node on the page, by document
// order, and validates it under the looser second-post threshold.
func (d *QuotedPostDetector) bySecondPost(tree NodeTree, primary string, trace *DetectionTrace) *models.QuotedPost {
	for _, selector := range PrimaryPostSelectors {
		posts := tree.SelectAll(selector)
		if len(posts) < 2 {
			continue
		}

		post := extractPostShape(posts[1])
		if post == nil {
			continue
		}

		ok := validateCandidate(post.Text, primary, d.SecondPostThreshold)
		trace.add("second-post", post.Text, 0, ok)
		if ok {
			return post
		}
	}
	return nil
}

// validateCandidate applies the subset/similarity check shared by every
// strategy: reject empty or too-short text, a verbatim duplicate of the
// primary, substring containment in either direction, and near-duplicates at
// or above the strategy's similarity threshold.
func validateCandidate(candidateText, primary string, simThreshold float64) bool {
	text := NormalizeText(candidateText)
	if utf8.RuneCountInString(text) < MinQuotedTextLen {
		return false
	}
	if text == primary {
		return false
	}
	if strings.Contains(text, primary) || strings.Contains(primary, text) {
		return false
	}
	return TextSimilarity(text, primary) < simThreshold
}

// extractPostShape reads the post-shaped fields out of a container node.
// Author, username and timestamp are independently optional; only text is
// required.
func extractPostShape(node Node) *models.QuotedPost {
	text := ""
	for _, selector := range PostTextSelectors {
		if t := node.SelectFirst(selector); t != nil {
			if v := NormalizeText(t.Text()); v != "" {
				text = v
				break
			}
		}
	}
	if text == "" {
		text = NormalizeText(node.Text())
	}
	if text == "" {
		return nil
	}

	post := &models.QuotedPost{
		Text:      text,
		Author:    postAuthor(node),
		Username:  postUsername(node),
		Timestamp: postTimestamp(node),
	}
	return post
}

// postAuthor returns the display name: the first author-selector hit that is
// not a handle.
func postAuthor(node Node) string {
	for _, selector := range PostAuthorSelectors {
		for _, span := range node.SelectAll(selector) {
			name := NormalizeText(span.Text())
			if name != "" && !strings.HasPrefix(name, "@") {
				return name
			}
		}
	}
	return ""
}

// postUsername returns the "@" handle, without scanning past the first hit.
func postUsername(node Node) string {
	for _, span := range node.SelectAll("span") {
		text := NormalizeText(span.Text())
		if strings.HasPrefix(text, "@") && !strings.Contains(text, " ") {
			return text
		}
	}
	return ""
}

func postTimestamp(node Node) string {
	t := node.SelectFirst("time")
	if t == nil {
		return ""
	}
	if dt := strings.TrimSpace(t.Attr("datetime")); dt != "" {
		return dt
	}
	return NormalizeText(t.Text())
}

// alternateText searches the subtree for a text run that is not a
// prefix/suffix overlap with the primary text.
func alternateText(node Node, primary string) string {
	for _, selector := range PostTextSelectors {
		for _, run := range node.SelectAll(selector) {
			text := NormalizeText(run.Text())
			if text == "" || text == primary {
				continue
			}
			if overlapsEdge(text, primary) {
				continue
			}
			return text
		}
	}
	return ""
}

// overlapsEdge reports whether either string is a prefix or suffix of the
// other.
func overlapsEdge(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a) ||
		strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}

// nestedPostShape searches descendants for a post-shaped element whose text
// differs from the primary post.
func nestedPostShape(node Node, primary string) *models.QuotedPost {
	for _, selector := range PostTextSelectors {
		for _, inner := range node.SelectAll(selector) {
			text := NormalizeText(inner.Text())
			if text == "" || text == primary {
				continue
			}
			return &models.QuotedPost{
				Text:      text,
				Author:    postAuthor(node),
				Username:  postUsername(node),
				Timestamp: postTimestamp(node),
			}
		}
	}
	return nil
}
