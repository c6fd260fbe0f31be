package models

import "time"

// ExtractedPage represents the structured content record of a rendered page.
// Content holds a sanitized HTML fragment; every string field is normalized
// before the record leaves the extraction pipeline.
type ExtractedPage struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Author        string   `json:"author,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Content       string   `json:"content,omitempty"`
	Images        []string `json:"images"`
	URL           string   `json:"url"`
}

// QuotedPost is the embedded post referenced by a primary post. Nesting stops
// here: a quoted post never carries engagement counts or a further quote.
type QuotedPost struct {
	Text      string `json:"text"`
	Author    string `json:"author,omitempty"`
	Username  string `json:"username,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ExtractedPost represents a social post with its optional quoted post.
type ExtractedPost struct {
	Text       string      `json:"text"`
	Author     string      `json:"author,omitempty"`
	Username   string      `json:"username,omitempty"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Likes      string      `json:"likes,omitempty"`
	Retweets   string      `json:"retweets,omitempty"`
	Replies    string      `json:"replies,omitempty"`
	QuotedPost *QuotedPost `json:"quotedPost,omitempty"`
	Formatted  string      `json:"formatted,omitempty"`
	URL        string      `json:"url"`
}

// PageResult is the uniform envelope for content extraction: either the full
// record or a single human-readable error string, never both.
type PageResult struct {
	Success bool           `json:"success"`
	Data    *ExtractedPage `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// PostResult is the uniform envelope for social-post extraction.
type PostResult struct {
	Success bool           `json:"success"`
	Data    *ExtractedPost `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// PageFailure builds a failed PageResult from an error.
func PageFailure(err error) PageResult {
	return PageResult{Success: false, Error: err.Error()}
}

// PostFailure builds a failed PostResult from an error.
func PostFailure(err error) PostResult {
	return PostResult{Success: false, Error: err.Error()}
}

// BlockedResponse represents a scrape refused by site protection.
type BlockedResponse struct {
	Error    string   `json:"error"`
	Provider string   `json:"provider"`
	Domain   string   `json:"domain"`
	Metadata Metadata `json:"metadata"`
}

// ErrorResponse represents entrypoint-level error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Metadata contains request metadata attached by the entrypoints.
type Metadata struct {
	URL        string    `json:"url"`
	ScrapedAt  time.Time `json:"scrapedAt"`
	DurationMs int64     `json:"durationMs"`
}
