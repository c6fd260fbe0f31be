// Package scraper provides constants used throughout the extraction pipeline.
package scraper

import "time"

// Timeout constants
const (
	HTTPTimeout       = 18 * time.Second
	BrowserTimeout    = 40 * time.Second
	NavigationTimeout = 30 * time.Second
	ReadyWaitTimeout  = 5 * time.Second
	SettleDelay       = 1500 * time.Millisecond
)

// Main content selection. Earlier selectors always outrank later ones; the
// first selector with any match wins.
var ContentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".content",
	".post-content",
	".entry-content",
	".article-content",
	".story-content",
}

// Page metadata selectors, first match wins.
var (
	AuthorSelectors = []string{
		"meta[name='author']",
		"meta[property='article:author']",
		"[rel='author']",
		"[itemprop='author']",
		".author",
		".byline",
	}
	DateSelectors = []string{
		"meta[property='article:published_time']",
		"time[datetime]",
		"time",
		"[itemprop='datePublished']",
		".published",
		".date",
	}
	DescriptionMetaNames = []string{
		"og:description",
		"twitter:description",
		"description",
	}
)

// Content fragment whitelist and fallback floor.
const (
	MinContentTextLen  = 100
	BlockContainerTags = "div, section, article, main, td, blockquote"

	// MinQualityScore is the confidence floor below which the readability
	// fallback is consulted even when a selector matched.
	MinQualityScore = 30
)

// Social post selectors.
var (
	// PrimaryPostSelectors locate the principal post container.
	PrimaryPostSelectors = []string{
		"article[data-testid='tweet']",
		"article[role='article']",
		"article",
	}
	// QuotedContainerSelectors locate nested/embedded post wrappers.
	QuotedContainerSelectors = []string{
		"[data-testid='quoteTweet']",
		"article[data-testid='tweet'] div[role='link'][tabindex='0']",
		"div[role='link'] article",
		"article article",
		"blockquote.twitter-tweet",
	}
	// PostTextSelectors locate the body text inside a post container.
	PostTextSelectors = []string{
		"[data-testid='tweetText']",
		"div[lang]",
		"div[dir='auto']",
	}
	// PostAuthorSelectors locate the display name inside a post container.
	PostAuthorSelectors = []string{
		"[data-testid='User-Name'] span",
		"[data-testid='User-Names'] span",
		"a[role='link'] span",
	}
	// QuoteIndicatorPhrases mark text or accessibility labels that tend to
	// accompany an embedded quote.
	QuoteIndicatorPhrases = []string{
		"quote",
		"quoted post",
		"replying to",
	}
)

// Quoted-post detection tuning. The similarity thresholds intentionally
// differ per strategy; changing one must not silently change the others.
const (
	SimThresholdCascade    = 0.7
	SimThresholdScan       = 0.6
	SimThresholdSecondPost = 0.8

	MinQuotedTextLen  = 10
	MinCandidateLen   = 50
	MaxCandidateLen   = 2000
	MaxScanCandidates = 5

	SimilarityMinTokenLen = 2 // tokens this short are discarded
)

// Social-post hosts accepted by FetchSocialPost.
var SocialPostHosts = map[string]bool{
	"twitter.com": true,
	"x.com":       true,
}

// Browser configuration
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 900
	MaxRedirects        = 5
)

// Lead-image extraction
const (
	DefaultImageLimit = 3
)

// Cloudflare detection patterns
var CloudflarePatterns = []string{
	"CF_BLOCKED",
	"cloudflare",
	"HTTP 403",
	"all alternate URLs failed",
	"attention required",
	"cloudflare ray id",
	"what can i do to resolve this?",
	"why have i been blocked?",
	"performance & security by cloudflare",
}
