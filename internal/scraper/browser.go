package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/trxrg/bulutlar-sub002/internal/config"
	"github.com/trxrg/bulutlar-sub002/internal/models"
)

// BrowserClient supplies rendered node-tree snapshots. Each Render call owns
// its own browser session; the session is released on every exit path, so
// concurrent renders need no coordination.
type BrowserClient struct {
	config  config.ScrapeConfig
	regexes map[string]*regexp.Regexp
}

func NewBrowserClient() *BrowserClient {
	return &BrowserClient{
		config:  config.DefaultScrapeConfig(),
		regexes: config.CompileRegexes(),
	}
}

// RenderOptions controls a single render.
type RenderOptions struct {
	Browser BrowserOptions
	// ReadySelector, when non-empty, is waited for after load. The wait is
	// best-effort: it may time out without failing the render.
	ReadySelector string
	// SettleDelay is a fixed post-load wait for late script mutations.
	SettleDelay time.Duration
}

// DefaultRenderOptions returns options for article pages.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Browser:     OptimizedBrowserOptions(),
		SettleDelay: SettleDelay,
	}
}

// PostRenderOptions returns options for social-post pages, which need script
// execution and their post container to appear.
func PostRenderOptions() RenderOptions {
	opts := RenderOptions{
		Browser:       DefaultBrowserOptions(),
		ReadySelector: PrimaryPostSelectors[0],
		SettleDelay:   SettleDelay,
	}
	return opts
}

// Render navigates to the URL, waits for readiness, and returns the rendered
// HTML snapshot plus the final URL after redirects.
func (b *BrowserClient) Render(ctx context.Context, targetURL string, opts RenderOptions) (string, string, error) {
	navCtx, cancel := context.WithTimeout(ctx, NavigationTimeout)
	defer cancel()

	opts.Browser.UserAgent = b.config.UserAgent
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(navCtx, BuildChromeOptions(opts.Browser)...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return "", "", &models.NavigationError{URL: targetURL, Err: err}
	}

	if opts.ReadySelector != "" {
		b.waitForSelector(tabCtx, opts.ReadySelector)
	}

	if opts.SettleDelay > 0 {
		if err := chromedp.Run(tabCtx, chromedp.Sleep(opts.SettleDelay)); err != nil {
			return "", "", &models.NavigationError{URL: targetURL, Err: err}
		}
	}

	var rawHTML, finalURL string
	err = chromedp.Run(tabCtx,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &rawHTML),
	)
	if err != nil {
		return "", "", &models.NavigationError{URL: targetURL, Err: err}
	}

	return rawHTML, finalURL, nil
}

// waitForSelector waits for the readiness marker under its own deadline.
// Timing out here is not a failure: pages without the marker still render.
func (b *BrowserClient) waitForSelector(tabCtx context.Context, selector string) {
	waitCtx, cancel := context.WithTimeout(tabCtx, ReadyWaitTimeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		log.Debug().Str("selector", selector).Err(err).Msg("readiness selector wait timed out")
	}
}

// RenderWithFallback tries the primary URL, then the alternate URLs, skipping
// block pages.
func (b *BrowserClient) RenderWithFallback(ctx context.Context, targetURL string, opts RenderOptions) (string, string, error) {
	rawHTML, finalURL, err := b.Render(ctx, targetURL, opts)
	if err == nil && !b.looksLikeBlock(rawHTML) {
		return rawHTML, finalURL, nil
	}

	alternates, altErr := NewHTTPClient().GenerateAlternateURLs(targetURL)
	if altErr != nil {
		return "", "", altErr
	}

	for _, altURL := range alternates {
		rawHTML, finalURL, err = b.Render(ctx, altURL, opts)
		if err == nil && !b.looksLikeBlock(rawHTML) {
			return rawHTML, finalURL, nil
		}
	}

	return "", "", fmt.Errorf("all URLs failed or were blocked by Cloudflare")
}

func (b *BrowserClient) looksLikeBlock(rawHTML string) bool {
	return b.regexes["cfBlock"].MatchString(strings.ToLower(rawHTML))
}
