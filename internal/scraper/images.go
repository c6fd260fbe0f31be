package scraper

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/trxrg/bulutlar-sub002/internal/config"
)

// imageCandidate is a potential lead image with scoring data.
type imageCandidate struct {
	URL       string
	Width     int
	Height    int
	InArticle bool
	Score     float64
}

// ImageExtractor picks lead images for an extracted page: the og:image first,
// then scored <img> candidates with ad-size and bad-hint rejection.
type ImageExtractor struct {
	config  config.ImageConfig
	regexes map[string]*regexp.Regexp
}

func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{
		config:  config.DefaultImageConfig(),
		regexes: config.CompileRegexes(),
	}
}

// ExtractImages returns up to DefaultImageLimit absolute image URLs, best
// first.
func (ie *ImageExtractor) ExtractImages(rawHTML, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return []string{}
	}

	var candidates []imageCandidate
	if og := ie.ogImageCandidate(doc); og != nil {
		candidates = append(candidates, *og)
	}
	candidates = append(candidates, ie.imgTagCandidates(doc)...)

	var kept []imageCandidate
	for _, c := range candidates {
		if !ie.passesFilters(c) {
			continue
		}
		c.Score = ie.score(c)
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Width*kept[i].Height > kept[j].Width*kept[j].Height
	})

	seen := make(map[string]bool)
	var out []string
	for _, c := range kept {
		resolved := resolveImageURL(c.URL, baseURL)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true
		out = append(out, resolved)
		if len(out) == DefaultImageLimit {
			break
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}

func (ie *ImageExtractor) ogImageCandidate(doc *goquery.Document) *imageCandidate {
	var src string
	var width, height int

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		property, ok := s.Attr("property")
		if !ok {
			return
		}
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		switch property {
		case "og:image", "og:image:secure_url":
			if src == "" {
				src = content
			}
		case "og:image:width":
			width, _ = strconv.Atoi(content)
		case "og:image:height":
			height, _ = strconv.Atoi(content)
		}
	})

	if src == "" {
		return nil
	}
	// og:image is declared by the page itself: trust it like in-article content.
	return &imageCandidate{URL: src, Width: width, Height: height, InArticle: true}
}

func (ie *ImageExtractor) imgTagCandidates(doc *goquery.Document) []imageCandidate {
	var candidates []imageCandidate

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := imgSource(s, ie.regexes["srcsetItem"])
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if ie.regexes["badHint"].MatchString(src) {
			return
		}
		if class, ok := s.Attr("class"); ok && ie.regexes["badHint"].MatchString(class) {
			return
		}

		width, height := imgDimensions(s)
		if width == 0 && height == 0 {
			if m := ie.regexes["dimensionsFromUrl"].FindStringSubmatch(src); m != nil {
				width, _ = strconv.Atoi(m[1])
				height, _ = strconv.Atoi(m[2])
			}
		}

		candidates = append(candidates, imageCandidate{
			URL:       src,
			Width:     width,
			Height:    height,
			InArticle: s.ParentsFiltered("article, main").Length() > 0,
		})
	})
	return candidates
}

// imgSource prefers the largest srcset entry over the plain src attributes.
func imgSource(s *goquery.Selection, srcsetItem *regexp.Regexp) string {
	if srcset, ok := s.Attr("srcset"); ok {
		bestURL, bestWidth := "", 0
		for _, m := range srcsetItem.FindAllStringSubmatch(srcset, -1) {
			if w, err := strconv.Atoi(m[2]); err == nil && w > bestWidth {
				bestURL, bestWidth = m[1], w
			}
		}
		if bestURL != "" {
			return bestURL
		}
	}
	for _, attr := range []string{"src", "data-src", "data-original", "data-lazy-src"} {
		if v, ok := s.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

func imgDimensions(s *goquery.Selection) (int, int) {
	width, height := 0, 0
	if v, ok := s.Attr("width"); ok {
		width, _ = strconv.Atoi(v)
	}
	if v, ok := s.Attr("height"); ok {
		height, _ = strconv.Atoi(v)
	}
	return width, height
}

func (ie *ImageExtractor) passesFilters(c imageCandidate) bool {
	// Candidates with unknown dimensions are kept; scoring demotes them.
	if c.Width == 0 || c.Height == 0 {
		return true
	}

	short := c.Width
	if c.Height < short {
		short = c.Height
	}
	if short < ie.config.MinShortSide {
		return false
	}
	if c.Width*c.Height < ie.config.MinArea {
		return false
	}

	aspect := float64(c.Width) / float64(c.Height)
	if aspect < ie.config.MinAspect || aspect > ie.config.MaxAspect {
		return false
	}

	sizeKey := strconv.Itoa(c.Width) + "x" + strconv.Itoa(c.Height)
	return !ie.config.AdSizes[sizeKey]
}

func (ie *ImageExtractor) score(c imageCandidate) float64 {
	score := 0.0
	if area := c.Width * c.Height; area > 0 {
		score += math.Log10(float64(area))
	}
	if c.InArticle {
		score += 2
	}
	return score
}

func resolveImageURL(src, baseURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
