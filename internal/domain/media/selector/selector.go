// Package selector picks the best deliverable variants from a probed
// candidate list.
package selector

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

// Select filters out candidates whose probe verdict is over the ceiling and
// ranks the rest by format preference: mp4-looking before everything else,
// itag=18 before other mp4, smaller before larger. Ties keep discovery
// order. Returns at most limit candidates.
//
// Unknown-size candidates are kept: the direct URL hand-off costs nothing
// and the re-upload path enforces the ceiling while buffering.
//
// Errors distinguish an empty input (errs.ErrNoMedia) from a non-empty
// input in which nothing fits (errs.ErrAllTooLarge).
func Select(candidates []entities.MediaCandidate, limit int) ([]entities.MediaCandidate, error) {
	if len(candidates) == 0 {
		return nil, errs.ErrNoMedia
	}

	sendable := make([]entities.MediaCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Verdict == entities.SizeKnownOver {
			continue
		}
		sendable = append(sendable, c)
	}

	if len(sendable) == 0 {
		return nil, errs.ErrAllTooLarge
	}

	sort.SliceStable(sendable, func(i, j int) bool {
		ki, kj := rankKey(sendable[i]), rankKey(sendable[j])
		if ki.formatTier != kj.formatTier {
			return ki.formatTier < kj.formatTier
		}
		if ki.itagTier != kj.itagTier {
			return ki.itagTier < kj.itagTier
		}
		return ki.sizeMB < kj.sizeMB
	})

	if limit > 0 && len(sendable) > limit {
		sendable = sendable[:limit]
	}

	return sendable, nil
}

type key struct {
	formatTier int
	itagTier   int
	sizeMB     int
}

func rankKey(c entities.MediaCandidate) key {
	k := key{formatTier: 1, itagTier: 1, sizeMB: c.SizeMB}
	if looksLikeMP4(c.URL) {
		k.formatTier = 0
	}
	if itag(c.URL) == "18" {
		k.itagTier = 0
	}
	return k
}

func looksLikeMP4(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if strings.ToLower(path.Ext(parsed.Path)) == ".mp4" {
		return true
	}
	return strings.Contains(strings.ToLower(parsed.Query().Get("mime")), "mp4")
}

func itag(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("itag")
}
