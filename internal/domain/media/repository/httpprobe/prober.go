// Package httpprobe determines a media URL's byte size without downloading
// the body.
package httpprobe

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	"github.com/yourusername/media-saver-bot/internal/infrastructure/httpclient"
)

const probeTimeout = 10 * time.Second

// Prober implements deps.SizeProber. Strategies in order, cheapest first:
// a clen query-parameter hint, a HEAD request, a one-byte range GET. Any
// network failure degrades to SizeUnknown; probing never propagates errors.
type Prober struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewProber creates a new size prober
func NewProber(httpClient *http.Client, logger zerolog.Logger) deps.SizeProber {
	return &Prober{
		httpClient: httpClient,
		logger:     logger.With().Str("component", "prober").Logger(),
	}
}

// Probe reports the candidate's size verdict against the ceiling in MB
func (p *Prober) Probe(ctx context.Context, rawURL string, ceilingMB int) (entities.SizeVerdict, int) {
	sizeBytes, ok := sizeFromQueryHint(rawURL)
	if !ok {
		sizeBytes, ok = p.sizeFromHead(ctx, rawURL)
	}
	if !ok {
		sizeBytes, ok = p.sizeFromRange(ctx, rawURL)
	}
	if !ok {
		return entities.SizeUnknown, 0
	}

	sizeMB := int(sizeBytes / (1024 * 1024))
	if sizeBytes > int64(ceilingMB)*1024*1024 {
		return entities.SizeKnownOver, sizeMB
	}
	return entities.SizeKnownOK, sizeMB
}

// sizeFromQueryHint reads the clen parameter common on CDN redirect URLs
func sizeFromQueryHint(rawURL string) (int64, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, false
	}
	clen := parsed.Query().Get("clen")
	if clen == "" {
		return 0, false
	}
	size, err := strconv.ParseInt(clen, 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}
	return size, true
}

func (p *Prober) sizeFromHead(ctx context.Context, rawURL string) (int64, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, false
	}
	req.Header.Set("User-Agent", httpclient.BrowserUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", rawURL).Msg("HEAD probe failed")
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, false
	}
	if resp.ContentLength <= 0 {
		return 0, false
	}
	return resp.ContentLength, true
}

// sizeFromRange asks for the first byte and parses the total out of the
// Content-Range header ("bytes 0-0/12345")
func (p *Prober) sizeFromRange(ctx context.Context, rawURL string) (int64, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, false
	}
	req.Header.Set("User-Agent", httpclient.BrowserUserAgent)
	req.Header.Set("Range", "bytes=0-0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", rawURL).Msg("Range probe failed")
		return 0, false
	}
	defer resp.Body.Close()

	return parseContentRange(resp.Header.Get("Content-Range"))
}

func parseContentRange(header string) (int64, bool) {
	if header == "" {
		return 0, false
	}
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return 0, false
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, false
	}
	size, err := strconv.ParseInt(total, 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}
	return size, true
}
