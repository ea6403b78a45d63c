package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/media-saver-bot/config"
	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.ResolverConfig{
		APIKey:  "test-key",
		APIHost: "test-host",
		APIURL:  server.URL,
	}
	resolver := NewClient(cfg, server.Client(), zerolog.Nop())
	return server, resolver.(*Client)
}

func TestResolve_SendsCredentialsAndBody(t *testing.T) {
	var gotKey, gotHost, gotURL string

	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotURL = body["url"]

		_ = json.NewEncoder(w).Encode(map[string]any{
			"links": []map[string]string{{"url": "https://cdn.example.com/a.mp4"}},
		})
	})

	result, err := client.Resolve(context.Background(), "https://instagram.com/p/abc")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "test-host", gotHost)
	assert.Equal(t, "https://instagram.com/p/abc", gotURL)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "https://cdn.example.com/a.mp4", result.Candidates[0].URL)
}

func TestResolve_RateLimitIsDistinct(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Resolve(context.Background(), "https://instagram.com/p/abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRateLimited), "429 must map to ErrRateLimited, got %v", err)
	assert.False(t, errors.Is(err, errs.ErrUpstream))
}

func TestResolve_ServerErrorIsUpstream(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Resolve(context.Background(), "https://instagram.com/p/abc")
	assert.True(t, errors.Is(err, errs.ErrUpstream))
}

func TestResolve_GarbageBodyIsUpstream(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.Resolve(context.Background(), "https://instagram.com/p/abc")
	assert.True(t, errors.Is(err, errs.ErrUpstream))
}

func TestResolve_EmptyButValidResponse(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})

	result, err := client.Resolve(context.Background(), "https://instagram.com/p/abc")
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestResolve_MetadataExtracted(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title":  "cat video",
			"author": "cats",
			"medias": []map[string]any{{"url": "https://cdn.example.com/cat.mp4", "mimeType": "video/mp4"}},
		})
	})

	result, err := client.Resolve(context.Background(), "https://youtube.com/watch?v=x")
	require.NoError(t, err)
	assert.Equal(t, "cat video", result.Meta.Title)
	assert.Equal(t, "cats", result.Meta.Author)
}
