package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAlternateURLs(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient()

	t.Run("plain article URL", func(t *testing.T) {
		t.Parallel()

		alternates, err := client.GenerateAlternateURLs("https://news.example.com/story/42")
		require.NoError(t, err)

		assert.Contains(t, alternates, "https://news.example.com/amp/story/42")
		assert.Contains(t, alternates, "https://news.example.com/story/42/amp")
		assert.Contains(t, alternates, "https://news.example.com/story/42?outputType=amp")
		assert.Contains(t, alternates, "https://m.news.example.com/story/42")
	})

	t.Run("already AMP prefixed", func(t *testing.T) {
		t.Parallel()

		alternates, err := client.GenerateAlternateURLs("https://news.example.com/amp/story/42")
		require.NoError(t, err)
		assert.NotContains(t, alternates, "https://news.example.com/amp/amp/story/42")
	})

	t.Run("mobile host not doubled", func(t *testing.T) {
		t.Parallel()

		alternates, err := client.GenerateAlternateURLs("https://m.example.com/story")
		require.NoError(t, err)
		for _, alt := range alternates {
			assert.NotContains(t, alt, "m.m.")
		}
	})

	t.Run("existing query preserved", func(t *testing.T) {
		t.Parallel()

		alternates, err := client.GenerateAlternateURLs("https://example.com/a?x=1")
		require.NoError(t, err)
		assert.Contains(t, alternates, "https://example.com/a?x=1&outputType=amp")
	})
}

func TestFetchHTML(t *testing.T) {
	t.Parallel()

	t.Run("returns page body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer server.Close()

		client := NewHTTPClient()
		body, err := client.FetchHTML(context.Background(), server.URL, 0)
		require.NoError(t, err)
		assert.Contains(t, body, "hello")
	})

	t.Run("rejects non-HTML content type", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewHTTPClient()
		_, err := client.FetchHTML(context.Background(), server.URL, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-HTML content-type")
	})

	t.Run("4xx is an error without retry", func(t *testing.T) {
		t.Parallel()

		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewHTTPClient()
		_, err := client.FetchHTML(context.Background(), server.URL, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 403")
		assert.Equal(t, 1, hits)
	})

	t.Run("5xx retries then succeeds", func(t *testing.T) {
		t.Parallel()

		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			if hits == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>recovered</html>"))
		}))
		defer server.Close()

		client := NewHTTPClient()
		body, err := client.FetchHTML(context.Background(), server.URL, 0)
		require.NoError(t, err)
		assert.Contains(t, body, "recovered")
		assert.Equal(t, 2, hits)
	})
}

func TestLooksLikeBlock(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient()
	assert.True(t, client.LooksLikeBlock("<html>Attention Required! Cloudflare Ray ID: abc</html>"))
	assert.False(t, client.LooksLikeBlock("<html><body>a normal page</body></html>"))
}
