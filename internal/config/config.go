package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// ImageConfig contains configuration for lead-image extraction.
type ImageConfig struct {
	MinShortSide int
	MinArea      int
	MinAspect    float64
	MaxAspect    float64
	AdSizes      map[string]bool
	BadHintRegex string
}

// ScrapeConfig contains general scraping configuration.
type ScrapeConfig struct {
	UserAgent      string
	TimeoutMs      int
	SizeLimitBytes int
	MaxRetries     int
	ChromeMajor    int
}

// DefaultImageConfig returns the default lead-image extraction configuration.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		MinShortSide: 300,
		MinArea:      140000,
		MinAspect:    0.5,
		MaxAspect:    2.6,
		AdSizes: map[string]bool{
			"728x90": true, "970x90": true, "970x250": true, "468x60": true,
			"320x50": true, "300x50": true, "300x250": true, "336x280": true,
			"300x600": true, "160x600": true, "120x600": true, "250x250": true,
			"200x200": true, "180x150": true, "234x60": true, "120x240": true,
			"88x31": true,
		},
		BadHintRegex: `(sprite|icon|favicon|logo|avatar|emoji|placeholder|pixel|tracker|ads?|adserver|promo|beacon)`,
	}
}

// DefaultScrapeConfig returns the default scraping configuration with
// environment overrides.
func DefaultScrapeConfig() ScrapeConfig {
	chromeMajor := 133
	if env := os.Getenv("CHROME_MAJOR"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			chromeMajor = parsed
		}
	}

	timeoutMs := 15000
	if env := os.Getenv("SCRAPE_TIMEOUT_MS"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil && parsed > 0 {
			timeoutMs = parsed
		}
	}

	userAgent := os.Getenv("SCRAPE_USER_AGENT")
	if userAgent == "" {
		userAgent = fmt.Sprintf("Mozilla/5.0 (Windows NT 10; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.6943.126 Safari/537.36", chromeMajor)
	}

	return ScrapeConfig{
		UserAgent:      userAgent,
		TimeoutMs:      timeoutMs,
		SizeLimitBytes: 6_000_000,
		MaxRetries:     2,
		ChromeMajor:    chromeMajor,
	}
}

// CompileRegexes pre-compiles regex patterns shared across the scraper.
func CompileRegexes() map[string]*regexp.Regexp {
	cfg := DefaultImageConfig()

	badHintRegex, _ := regexp.Compile("(?i)" + cfg.BadHintRegex)

	return map[string]*regexp.Regexp{
		"badHint":           badHintRegex,
		"srcsetItem":        regexp.MustCompile(`(\S+)\s+(\d+)w`),
		"dimensionsFromUrl": regexp.MustCompile(`(?:^|[^\d])(\d{3,4})x(\d{3,4})(?:[^\d]|$)`),
		"cfBlock":           regexp.MustCompile(`(attention required|cloudflare ray id|what can i do to resolve this\?|why have i been blocked\?|performance & security by cloudflare)`),
	}
}
