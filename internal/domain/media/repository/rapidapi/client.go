// Package rapidapi contains the upstream resolver API client and the
// response extractor.
package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/media-saver-bot/config"
	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

const (
	requestTimeout = 15 * time.Second
	// responses are small JSON documents; anything bigger is garbage
	maxResponseBytes = 4 << 20
)

// Client implements deps.Resolver over the RapidAPI social downloader
// endpoint
type Client struct {
	cfg        *config.ResolverConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new resolver client
func NewClient(cfg *config.ResolverConfig, httpClient *http.Client, logger zerolog.Logger) deps.Resolver {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve posts the submitted link to the upstream API and extracts direct
// media URLs and metadata from whatever shape comes back.
//
// HTTP 429 maps to errs.ErrRateLimited. Any other non-2xx status, network
// failure or unparseable body maps to errs.ErrUpstream. A well-formed
// response with no recognizable media yields an empty result and no error.
func (c *Client) Resolve(ctx context.Context, postURL string) (*entities.ResolutionResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"url": postURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resolve request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build resolve request: %w", err)
	}

	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.APIHost)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", postURL).Msg("Upstream request failed")
		return nil, errs.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn().Str("url", postURL).Msg("Upstream rate limit reached")
		return nil, errs.ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Str("url", postURL).Msg("Upstream returned error status")
		return nil, errs.ErrUpstream
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Error().Err(err).Str("url", postURL).Msg("Failed to read upstream response")
		return nil, errs.ErrUpstream
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		c.logger.Error().Err(err).Str("url", postURL).Msg("Failed to parse upstream response")
		return nil, errs.ErrUpstream
	}

	result := &entities.ResolutionResult{
		Meta:       ExtractMetadata(doc),
		Candidates: ExtractCandidates(doc),
	}

	if len(result.Candidates) == 0 {
		c.logger.Warn().Str("url", postURL).Msg("No media URLs found in upstream response")
	} else {
		c.logger.Info().
			Str("url", postURL).
			Int("candidates", len(result.Candidates)).
			Msg("Upstream resolution completed")
	}

	return result, nil
}
