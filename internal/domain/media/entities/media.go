// Package entities contains domain entities
package entities

import (
	"net/url"
	"path"
	"strings"
)

// MediaType represents media file type
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypePhoto MediaType = "photo"
	MediaTypeFile  MediaType = "file"
)

// SizeVerdict is the outcome of probing a candidate's byte size
type SizeVerdict int

const (
	// SizeUnknown means no probe strategy produced a size
	SizeUnknown SizeVerdict = iota
	// SizeKnownOK means the size is known and within the ceiling
	SizeKnownOK
	// SizeKnownOver means the size is known and exceeds the ceiling
	SizeKnownOver
)

// MediaCandidate is one resolved direct-media URL. SizeMB is meaningful
// only when Verdict is SizeKnownOK or SizeKnownOver.
type MediaCandidate struct {
	URL     string      `json:"url"`
	Type    MediaType   `json:"type"`
	SizeMB  int         `json:"sizeMb"`
	Verdict SizeVerdict `json:"verdict"`
}

// Metadata carries optional descriptive fields from the upstream response.
// Absent fields are empty strings.
type Metadata struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Source    string `json:"source"`
	Duration  string `json:"duration"`
	Thumbnail string `json:"thumbnail"`
}

// IsEmpty reports whether no metadata field was found
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Author == "" && m.Source == "" && m.Duration == "" && m.Thumbnail == ""
}

// ResolutionResult is the outcome of one upstream resolution
type ResolutionResult struct {
	Meta       Metadata         `json:"meta"`
	Candidates []MediaCandidate `json:"candidates"`
}

// URLs returns the candidate URLs in discovery order
func (r *ResolutionResult) URLs() []string {
	urls := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		urls = append(urls, c.URL)
	}
	return urls
}

// DeliveryStrategy identifies how a candidate was handed to Telegram
type DeliveryStrategy string

const (
	StrategyDirectURL        DeliveryStrategy = "direct_url"
	StrategyStreamedReupload DeliveryStrategy = "streamed_reupload"
)

// DeliveryOutcome is the terminal state of one delivery attempt
type DeliveryOutcome string

const (
	OutcomeSent            DeliveryOutcome = "sent"
	OutcomeSkippedTooLarge DeliveryOutcome = "skipped_too_large"
	OutcomeFailed          DeliveryOutcome = "failed"
)

// DeliveryAttempt records one per-candidate delivery loop iteration
type DeliveryAttempt struct {
	Candidate MediaCandidate
	Strategy  DeliveryStrategy
	Outcome   DeliveryOutcome
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".m4v": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// GuessMediaType infers the media type of a direct URL: path extension
// first, then a mime query parameter hint, otherwise a generic file.
func GuessMediaType(rawURL string) MediaType {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return MediaTypeFile
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	if videoExtensions[ext] {
		return MediaTypeVideo
	}
	if imageExtensions[ext] {
		return MediaTypePhoto
	}

	mime := strings.ToLower(parsed.Query().Get("mime"))
	if strings.HasPrefix(mime, "video/") {
		return MediaTypeVideo
	}
	if strings.HasPrefix(mime, "image/") {
		return MediaTypePhoto
	}

	return MediaTypeFile
}

// LooksLikeMediaFile reports whether the URL path ends in a known
// video or image extension. Bare URLs without such a signal are not
// forwarded as media.
func LooksLikeMediaFile(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	return videoExtensions[ext] || imageExtensions[ext]
}
