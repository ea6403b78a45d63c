package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

func newFetcher(server *httptest.Server) *Fetcher {
	return NewFetcher(server.Client(), zerolog.Nop()).(*Fetcher)
}

func TestFetch_BuffersBody(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1024)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	data, err := newFetcher(server).Fetch(context.Background(), server.URL+"/v.mp4", 1<<20)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFetch_CapAbortsOversizedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Length: the cap must trigger while reading
		w.Header().Set("Transfer-Encoding", "chunked")
		_, _ = w.Write(bytes.Repeat([]byte("x"), 4096))
	}))
	defer server.Close()

	_, err := newFetcher(server).Fetch(context.Background(), server.URL+"/v.mp4", 1024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStreamTooLarge))
}

func TestFetch_ContentLengthRejectedUpFront(t *testing.T) {
	served := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
		w.Header().Set("Content-Length", fmt.Sprint(1<<20))
		_, _ = w.Write(bytes.Repeat([]byte("x"), 1<<20))
	}))
	defer server.Close()

	_, err := newFetcher(server).Fetch(context.Background(), server.URL+"/v.mp4", 1024)
	require.True(t, errors.Is(err, errs.ErrStreamTooLarge))
	assert.True(t, served)
}

func TestFetch_FollowsRedirectsManually(t *testing.T) {
	payload := []byte("final content")

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/middle", http.StatusFound)
	})
	mux.HandleFunc("/middle", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})

	data, err := newFetcher(server).Fetch(context.Background(), server.URL+"/start", 1<<20)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFetch_RedirectLoopAborts(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})

	_, err := newFetcher(server).Fetch(context.Background(), server.URL+"/loop", 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many redirects")
}

func TestFetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newFetcher(server).Fetch(context.Background(), server.URL+"/v.mp4", 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
