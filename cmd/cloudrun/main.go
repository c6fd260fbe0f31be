package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trxrg/bulutlar-sub002/internal/models"
	"github.com/trxrg/bulutlar-sub002/internal/scraper"
)

// Handler serves the extraction operations over HTTP.
type Handler struct {
	content *scraper.ContentService
	posts   *scraper.SocialPostService
}

func NewHandler() *Handler {
	return &Handler{
		content: scraper.NewContentService(),
		posts:   scraper.NewSocialPostService(),
	}
}

// HandleContent handles GET /content?url=...
func (h *Handler) HandleContent(w http.ResponseWriter, r *http.Request) {
	targetURL, ctx, cancel, ok := h.prepare(w, r)
	if !ok {
		return
	}
	defer cancel()

	start := time.Now()
	result := h.content.FetchContent(ctx, targetURL)
	log.Info().Str("url", targetURL).Dur("took", time.Since(start)).Bool("success", result.Success).Msg("content request done")

	if !result.Success {
		h.writeFailure(w, targetURL, result.Error, start)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandlePost handles GET /post?url=...
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	targetURL, ctx, cancel, ok := h.prepare(w, r)
	if !ok {
		return
	}
	defer cancel()

	start := time.Now()
	result := h.posts.FetchSocialPost(ctx, targetURL)
	log.Info().Str("url", targetURL).Dur("took", time.Since(start)).Bool("success", result.Success).Msg("post request done")

	if !result.Success {
		h.writeFailure(w, targetURL, result.Error, start)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// prepare applies CORS, method and parameter checks shared by both routes.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (string, context.Context, context.CancelFunc, bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Api-Key,x-api-key")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return "", nil, nil, false
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
		return "", nil, nil, false
	}

	targetURL := r.URL.Query().Get("url")
	if targetURL == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing \"url\" query parameter"})
		return "", nil, nil, false
	}

	timeoutMs := 60000
	if v := r.URL.Query().Get("timeout"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			timeoutMs = parsed
		}
	}
	if timeoutMs > 240000 {
		timeoutMs = 240000
	}
	if timeoutMs < 1000 {
		timeoutMs = 1000
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeoutMs)*time.Millisecond)
	return targetURL, ctx, cancel, true
}

// writeFailure maps a failed result onto the right status code, with the
// Cloudflare-blocked shape kept distinct.
func (h *Handler) writeFailure(w http.ResponseWriter, targetURL, message string, start time.Time) {
	meta := models.Metadata{
		URL:        targetURL,
		ScrapedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}

	switch {
	case message == "Invalid URL format" || message == "Unsupported social post host":
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: message})
	case scraper.IsCloudflareBlock(errors.New(message)):
		writeJSON(w, http.StatusUnavailableForLegalReasons, models.BlockedResponse{
			Error:    "Blocked by site protection",
			Provider: "cloudflare",
			Domain:   hostnameOf(targetURL),
			Metadata: meta,
		})
	case strings.Contains(message, context.DeadlineExceeded.Error()):
		writeJSON(w, http.StatusGatewayTimeout, models.ErrorResponse{Error: "Extraction took too long"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Extraction failed", Details: message})
	}
}

func hostnameOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Hostname()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	handler := NewHandler()
	mux := http.NewServeMux()
	mux.HandleFunc("/content", handler.HandleContent)
	mux.HandleFunc("/post", handler.HandlePost)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
