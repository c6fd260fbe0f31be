package scraper

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/trxrg/bulutlar-sub002/internal/models"
)

var (
	countPattern    = regexp.MustCompile(`\d[\d,.]*[KkMm]?`)
	validURLPattern = regexp.MustCompile(`^https?://.+`)
)

// ValidateURL reports whether the URL has an http or https scheme followed by
// at least one character.
func ValidateURL(rawURL string) bool {
	return validURLPattern.MatchString(rawURL)
}

// IsSupportedPostHost reports whether the URL points at one of the known
// social-post domains. Subdomains of a known domain are accepted.
func IsSupportedPostHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if SocialPostHosts[host] {
		return true
	}
	for known := range SocialPostHosts {
		if strings.HasSuffix(host, "."+known) {
			return true
		}
	}
	return false
}

// ContentService turns a URL into an ExtractedPage: HTTP-first fetch with
// browser fallback, then main-content location, whitelist stripping and
// paragraph repair.
type ContentService struct {
	httpClient *HTTPClient
	browser    *BrowserClient
	locator    *MainContentLocator
	images     *ImageExtractor
}

func NewContentService() *ContentService {
	return &ContentService{
		httpClient: NewHTTPClient(),
		browser:    NewBrowserClient(),
		locator:    NewMainContentLocator(),
		images:     NewImageExtractor(),
	}
}

// FetchContent runs the full content extraction pipeline. Every failure is
// converted into the result envelope; nothing is thrown across this boundary.
func (s *ContentService) FetchContent(ctx context.Context, targetURL string) models.PageResult {
	if !ValidateURL(targetURL) {
		return models.PageFailure(&models.InvalidURLError{URL: targetURL, Reason: "Invalid URL format"})
	}

	rawHTML, finalURL, err := s.acquireHTML(ctx, targetURL)
	if err != nil {
		if IsCloudflareBlock(err) {
			u, _ := url.Parse(targetURL)
			return models.PageFailure(&models.BlockedError{Domain: u.Hostname(), Err: err})
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return models.PageFailure(&models.TimeoutError{Operation: "content fetch", Timeout: BrowserTimeout.String(), Err: err})
		}
		return models.PageFailure(err)
	}

	page, err := s.extractPage(rawHTML, finalURL)
	if err != nil {
		return models.PageFailure(err)
	}

	log.Info().Str("url", targetURL).Int("contentLen", len(page.Content)).Msg("content extracted")
	return models.PageResult{Success: true, Data: page}
}

// acquireHTML is the hybrid fetch: plain HTTP with alternate-URL racing
// first, rendering session as fallback.
func (s *ContentService) acquireHTML(ctx context.Context, targetURL string) (string, string, error) {
	httpCtx, cancel := context.WithTimeout(ctx, HTTPTimeout)
	defer cancel()

	rawHTML, finalURL, err := s.httpClient.FetchWithAlternates(httpCtx, targetURL)
	if err == nil {
		return rawHTML, finalURL, nil
	}
	log.Debug().Str("url", targetURL).Err(err).Msg("http fetch failed, falling back to browser")

	browserCtx, cancel := context.WithTimeout(ctx, BrowserTimeout)
	defer cancel()

	return s.browser.RenderWithFallback(browserCtx, targetURL, DefaultRenderOptions())
}

// extractPage runs the synchronous pipeline over an already-rendered
// snapshot.
func (s *ContentService) extractPage(rawHTML, finalURL string) (*models.ExtractedPage, error) {
	tree, err := ParseTree(rawHTML)
	if err != nil {
		return nil, &models.ExtractionError{Step: "parse", Err: err}
	}

	parts := s.locator.Locate(tree)

	// Degrading to body usually means an unrecognized layout, and a low
	// quality score means the cascade grabbed chrome instead of the
	// article. Either way let readability take a shot.
	quality := ScoreContentQuality(parts.Content)
	if parts.UsedBodyFallback || quality.Score < MinQualityScore {
		s.locator.ReadabilityFallback(rawHTML, finalURL, &parts)
	}

	return &models.ExtractedPage{
		Title:         NormalizeText(parts.Title),
		Description:   NormalizeText(parts.Description),
		Author:        NormalizeText(parts.Author),
		PublishedDate: NormalizeText(parts.PublishedDate),
		Content:       parts.Content,
		Images:        s.images.ExtractImages(rawHTML, finalURL),
		URL:           finalURL,
	}, nil
}

// SocialPostService turns a social-post URL into an ExtractedPost with an
// optional quoted post.
type SocialPostService struct {
	browser  *BrowserClient
	detector *QuotedPostDetector
}

func NewSocialPostService() *SocialPostService {
	return &SocialPostService{
		browser:  NewBrowserClient(),
		detector: NewQuotedPostDetector(),
	}
}

// FetchSocialPost renders the post page and extracts the primary/quoted post
// pair.
func (s *SocialPostService) FetchSocialPost(ctx context.Context, targetURL string) models.PostResult {
	if !ValidateURL(targetURL) {
		return models.PostFailure(&models.InvalidURLError{URL: targetURL, Reason: "Invalid URL format"})
	}
	if !IsSupportedPostHost(targetURL) {
		return models.PostFailure(&models.InvalidURLError{URL: targetURL, Reason: "Unsupported social post host"})
	}

	browserCtx, cancel := context.WithTimeout(ctx, BrowserTimeout)
	defer cancel()

	rawHTML, finalURL, err := s.browser.Render(browserCtx, targetURL, PostRenderOptions())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.PostFailure(&models.TimeoutError{Operation: "post render", Timeout: BrowserTimeout.String(), Err: err})
		}
		return models.PostFailure(err)
	}

	post, err := s.extractPost(rawHTML, finalURL)
	if err != nil {
		return models.PostFailure(err)
	}

	log.Info().Str("url", targetURL).Bool("quoted", post.QuotedPost != nil).Msg("social post extracted")
	return models.PostResult{Success: true, Data: post}
}

// extractPost runs the synchronous social-post pipeline over a snapshot.
func (s *SocialPostService) extractPost(rawHTML, finalURL string) (*models.ExtractedPost, error) {
	tree, err := ParseTree(rawHTML)
	if err != nil {
		return nil, &models.ExtractionError{Step: "parse", Err: err}
	}

	post := extractPrimaryPost(tree)
	if post == nil || post.Text == "" {
		return nil, &models.ExtractionError{Step: "primary post", Err: errNoPostContent}
	}
	post.URL = finalURL

	quoted, trace := s.detector.Detect(tree, post.Text)
	post.QuotedPost = quoted
	for _, c := range trace.Candidates {
		log.Debug().
			Str("strategy", c.Strategy).
			Float64("score", c.Score).
			Bool("accepted", c.Accepted).
			Str("text", c.Text).
			Msg("quoted post candidate")
	}

	post.Formatted = FormatPost(*post)
	return post, nil
}

// extractPrimaryPost reads the principal post's fields via the fixed selector
// cascade.
func extractPrimaryPost(tree NodeTree) *models.ExtractedPost {
	var container Node
	for _, selector := range PrimaryPostSelectors {
		if node := tree.SelectFirst(selector); node != nil {
			container = node
			break
		}
	}
	if container == nil {
		return nil
	}

	shape := extractPostShape(container)
	if shape == nil {
		return nil
	}

	return &models.ExtractedPost{
		Text:      shape.Text,
		Author:    shape.Author,
		Username:  shape.Username,
		Timestamp: shape.Timestamp,
		Likes:     engagementCount(container, "[data-testid='like']"),
		Retweets:  engagementCount(container, "[data-testid='retweet']"),
		Replies:   engagementCount(container, "[data-testid='reply']"),
	}
}

// engagementCount parses the leading count out of an action button's
// accessibility label.
func engagementCount(container Node, selector string) string {
	node := container.SelectFirst(selector)
	if node == nil {
		return ""
	}
	if label := node.Attr("aria-label"); label != "" {
		if m := countPattern.FindString(label); m != "" {
			return m
		}
	}
	return countPattern.FindString(NormalizeText(node.Text()))
}

var errNoPostContent = errors.New("no post content found")
