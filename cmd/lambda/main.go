package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/trxrg/bulutlar-sub002/internal/models"
	"github.com/trxrg/bulutlar-sub002/internal/scraper"
)

var baseHeaders = map[string]string{
	"Content-Type":                 "application/json; charset=utf-8",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Api-Key,x-api-key",
	"Access-Control-Allow-Methods": "GET,OPTIONS",
}

// LambdaHandler handles API Gateway proxy events for both extraction
// operations, routed on the request path.
type LambdaHandler struct {
	content *scraper.ContentService
	posts   *scraper.SocialPostService
}

func NewLambdaHandler() *LambdaHandler {
	return &LambdaHandler{
		content: scraper.NewContentService(),
		posts:   scraper.NewSocialPostService(),
	}
}

func (h *LambdaHandler) Handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.HTTPMethod == "OPTIONS" {
		return respond(204, nil), nil
	}
	if event.HTTPMethod != "GET" {
		return respondJSON(405, models.ErrorResponse{Error: "Method not allowed"}), nil
	}

	targetURL := event.QueryStringParameters["url"]
	if targetURL == "" {
		return respondJSON(400, models.ErrorResponse{Error: "Missing \"url\" query parameter"}), nil
	}

	timeoutMs := 60000
	if v := event.QueryStringParameters["timeout"]; v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			timeoutMs = parsed
		}
	}
	// Lambda caps execution well below API Gateway's 29s; keep headroom.
	if timeoutMs > 28000 {
		timeoutMs = 28000
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	start := time.Now()
	var status int
	var payload any

	if strings.HasSuffix(event.Path, "/post") {
		result := h.posts.FetchSocialPost(ctx, targetURL)
		status, payload = resolve(result.Success, result.Error, result, targetURL, start)
	} else {
		result := h.content.FetchContent(ctx, targetURL)
		status, payload = resolve(result.Success, result.Error, result, targetURL, start)
	}

	log.Info().Str("url", targetURL).Int("status", status).Dur("took", time.Since(start)).Msg("request done")
	return respondJSON(status, payload), nil
}

// resolve maps a result envelope onto an HTTP status and body.
func resolve(success bool, message string, result any, targetURL string, start time.Time) (int, any) {
	if success {
		return 200, result
	}

	switch {
	case message == "Invalid URL format" || message == "Unsupported social post host":
		return 400, models.ErrorResponse{Error: message}
	case scraper.IsCloudflareBlock(errors.New(message)):
		return 451, models.BlockedResponse{
			Error:    "Blocked by site protection",
			Provider: "cloudflare",
			Domain:   hostnameOf(targetURL),
			Metadata: models.Metadata{
				URL:        targetURL,
				ScrapedAt:  time.Now(),
				DurationMs: time.Since(start).Milliseconds(),
			},
		}
	case strings.Contains(message, context.DeadlineExceeded.Error()):
		return 504, models.ErrorResponse{Error: "Extraction took too long"}
	default:
		return 500, models.ErrorResponse{Error: "Extraction failed", Details: message}
	}
}

func hostnameOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Hostname()
	}
	return ""
}

func respond(status int, body []byte) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    baseHeaders,
		Body:       string(body),
	}
}

func respondJSON(status int, payload any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		return respond(500, []byte(`{"error":"internal error"}`))
	}
	return respond(status, body)
}

func main() {
	handler := NewLambdaHandler()
	lambda.Start(handler.Handler)
}
