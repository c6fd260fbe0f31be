package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/trxrg/bulutlar-sub002/internal/config"
)

// HTTPClient fetches page HTML without a browser. It is the fast path for
// pages that do not need script execution; the rendering session is the
// fallback.
type HTTPClient struct {
	client  *http.Client
	config  config.ScrapeConfig
	regexes map[string]*regexp.Regexp
}

func NewHTTPClient() *HTTPClient {
	cfg := config.DefaultScrapeConfig()

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{
		client:  client,
		config:  cfg,
		regexes: config.CompileRegexes(),
	}
}

func (h *HTTPClient) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Referer", "https://www.google.com/")
}

// FetchHTML fetches a page over plain HTTP, retrying 5xx responses with
// exponential backoff up to MaxRetries.
func (h *HTTPClient) FetchHTML(ctx context.Context, targetURL string, retryCount int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	h.setRequestHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return h.retryWithBackoff(ctx, targetURL, retryCount)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", fmt.Errorf("non-HTML content-type: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(h.config.SizeLimitBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

func (h *HTTPClient) retryWithBackoff(ctx context.Context, targetURL string, retryCount int) (string, error) {
	if retryCount >= h.config.MaxRetries {
		return "", errors.New("max retries exceeded")
	}

	delay := time.Duration(1000*(1<<retryCount)) * time.Millisecond
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return h.FetchHTML(ctx, targetURL, retryCount+1)
}

// LooksLikeBlock checks if HTML content indicates Cloudflare blocking.
func (h *HTTPClient) LooksLikeBlock(rawHTML string) bool {
	return h.regexes["cfBlock"].MatchString(strings.ToLower(rawHTML))
}

// GenerateAlternateURLs creates AMP and mobile variants of a URL that often
// bypass script-heavy or protected renderings.
func (h *HTTPClient) GenerateAlternateURLs(originalURL string) ([]string, error) {
	u, err := url.Parse(originalURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	alternates := make([]string, 0, 4)

	if !strings.HasPrefix(u.Path, "/amp/") {
		ampURL := *u
		ampURL.Path = "/amp" + u.Path
		alternates = append(alternates, ampURL.String())
	}

	if !strings.HasSuffix(u.Path, "/amp") {
		ampURL := *u
		ampURL.Path = strings.TrimSuffix(ampURL.Path, "/") + "/amp"
		alternates = append(alternates, ampURL.String())
	}

	queryURL := *u
	if queryURL.RawQuery != "" {
		queryURL.RawQuery += "&outputType=amp"
	} else {
		queryURL.RawQuery = "outputType=amp"
	}
	alternates = append(alternates, queryURL.String())

	if !strings.HasPrefix(u.Hostname(), "m.") {
		mobileURL := *u
		mobileURL.Host = "m." + u.Hostname()
		alternates = append(alternates, mobileURL.String())
	}

	return alternates, nil
}

// FetchWithAlternates tries the primary URL, then races the AMP/mobile
// alternates and returns the first that is neither an error nor a block page.
func (h *HTTPClient) FetchWithAlternates(ctx context.Context, targetURL string) (string, string, error) {
	rawHTML, err := h.FetchHTML(ctx, targetURL, 0)
	if err == nil && !h.LooksLikeBlock(rawHTML) {
		return rawHTML, targetURL, nil
	}

	// Alternates only help against blocks and server errors.
	if err != nil && !strings.Contains(err.Error(), "HTTP 403") &&
		!strings.Contains(err.Error(), "HTTP 406") &&
		!strings.Contains(err.Error(), "HTTP 451") &&
		!strings.Contains(err.Error(), "HTTP 5") {
		return "", "", err
	}

	alternates, err := h.GenerateAlternateURLs(targetURL)
	if err != nil {
		return "", "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	type fetched struct {
		html string
		url  string
	}
	results := make(chan fetched, 1)

	for _, altURL := range alternates {
		altURL := altURL
		g.Go(func() error {
			rawHTML, err := h.FetchHTML(gctx, altURL, 0)
			if err != nil {
				// One alternate failing must not cancel the others.
				log.Debug().Str("url", altURL).Err(err).Msg("alternate fetch failed")
				return nil
			}
			if h.LooksLikeBlock(rawHTML) {
				log.Debug().Str("url", altURL).Msg("alternate blocked")
				return nil
			}
			select {
			case results <- fetched{html: rawHTML, url: altURL}:
			case <-gctx.Done():
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	if result, ok := <-results; ok {
		return result.html, result.url, nil
	}
	return "", "", errors.New("all alternate URLs failed or were blocked")
}
