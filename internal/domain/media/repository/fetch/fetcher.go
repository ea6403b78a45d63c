// Package fetch downloads resolved media URLs into memory for re-upload
// when Telegram refuses to fetch the URL itself.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
	"github.com/yourusername/media-saver-bot/internal/infrastructure/httpclient"
)

const (
	fetchTimeout = 120 * time.Second
	maxRedirects = 5
)

// Fetcher implements deps.StreamFetcher. Redirects are followed manually up
// to maxRedirects so CDN bounce chains stay under our control; the buffered
// body is capped at the caller's ceiling.
type Fetcher struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewFetcher creates a new stream fetcher sharing the pooled transport
func NewFetcher(shared *http.Client, logger zerolog.Logger) deps.StreamFetcher {
	// Same pool, no automatic redirect following
	client := &http.Client{
		Transport: shared.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Fetcher{
		httpClient: client,
		logger:     logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch buffers the body of rawURL up to maxBytes. The fetch aborts with
// errs.ErrStreamTooLarge the moment the stream exceeds the cap.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, maxBytes int64) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	current := rawURL
	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, current, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build fetch request: %w", err)
		}
		req.Header.Set("User-Agent", httpclient.BrowserUserAgent)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch failed: %w", err)
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			resp.Body.Close()

			if location == "" {
				return nil, fmt.Errorf("redirect without location from %s", current)
			}
			if hop >= maxRedirects {
				return nil, fmt.Errorf("too many redirects fetching %s", rawURL)
			}

			redirected, err := resp.Request.URL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("bad redirect location %q: %w", location, err)
			}
			current = redirected.String()
			f.logger.Debug().Str("url", current).Int("hop", hop+1).Msg("Following redirect")
			continue
		}

		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fetch returned status %d for %s", resp.StatusCode, current)
		}

		if resp.ContentLength > maxBytes {
			return nil, errs.ErrStreamTooLarge
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read stream: %w", err)
		}
		if int64(len(data)) > maxBytes {
			return nil, errs.ErrStreamTooLarge
		}

		f.logger.Debug().Str("url", rawURL).Int("bytes", len(data)).Msg("Stream fetched")
		return data, nil
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}
