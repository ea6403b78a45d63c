package rapidapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
)

// The upstream API's response shape is not contractually fixed: it varies by
// provider and link type. Extraction is an ordered chain of pure shape
// sniffers over the decoded document; the first one that yields candidates
// wins. Malformed or missing fields never fail extraction, they just yield
// nothing.

type shapeFunc func(doc map[string]any) []string

var shapeChain = []shapeFunc{
	fromLinksList,
	fromMediasList,
	fromMediaList,
	fromContainer,
	fromBareURL,
}

// ExtractCandidates runs the shape chain and wraps the discovered URLs as
// typed candidates in discovery order.
func ExtractCandidates(doc any) []entities.MediaCandidate {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	var urls []string
	for _, shape := range shapeChain {
		urls = shape(obj)
		if len(urls) > 0 {
			break
		}
	}

	candidates := make([]entities.MediaCandidate, 0, len(urls))
	for _, u := range urls {
		candidates = append(candidates, entities.MediaCandidate{
			URL:     u,
			Type:    entities.GuessMediaType(u),
			Verdict: entities.SizeUnknown,
		})
	}
	return candidates
}

// ExtractMetadata picks descriptive fields at the top level, falling back to
// a nested result/data object when the top level has none. Absence of
// metadata is not an error.
func ExtractMetadata(doc any) entities.Metadata {
	obj, ok := doc.(map[string]any)
	if !ok {
		return entities.Metadata{}
	}

	meta := pickMetadata(obj)
	if meta.IsEmpty() {
		if container, ok := asObject(obj["data"]); ok {
			meta = pickMetadata(container)
		} else if container, ok := asObject(obj["result"]); ok {
			meta = pickMetadata(container)
		}
	}
	return meta
}

func pickMetadata(obj map[string]any) entities.Metadata {
	return entities.Metadata{
		Title:     scalarString(obj["title"]),
		Author:    scalarString(obj["author"]),
		Source:    scalarString(obj["source"]),
		Duration:  scalarString(obj["duration"]),
		Thumbnail: scalarString(obj["thumbnail"]),
	}
}

// 1) 'links' list: common for the multi-provider endpoint
func fromLinksList(doc map[string]any) []string {
	return linksLike(doc["links"])
}

// 2) 'medias' list of richer objects carrying type/mime/extension/itag
// hints. Audio-only items are dropped, the rest is tiered: itag 18 first,
// other mp4 next, everything else last. An empty outcome falls back to
// taking any valid URL from the list unfiltered.
func fromMediasList(doc map[string]any) []string {
	items, ok := asList(doc["medias"])
	if !ok {
		return nil
	}

	var itag18, mp4s, others []string
	for _, raw := range items {
		item, ok := asObject(raw)
		if !ok {
			continue
		}
		candidate := firstURLField(item, "url", "download_url")
		if candidate == "" {
			continue
		}
		if isAudioItem(item) {
			continue
		}

		mime := strings.ToLower(stringField(item, "mimeType", "mime"))
		ext := strings.ToLower(stringField(item, "extension"))
		switch {
		case itagValue(item) == "18":
			itag18 = append(itag18, candidate)
		case strings.Contains(mime, "mp4") || ext == "mp4":
			mp4s = append(mp4s, candidate)
		default:
			others = append(others, candidate)
		}
	}

	urls := append(append(itag18, mp4s...), others...)
	if len(urls) > 0 {
		return urls
	}

	// Nothing survived the audio filter: fall back to anything with a URL
	for _, raw := range items {
		if item, ok := asObject(raw); ok {
			if candidate := firstURLField(item, "url", "download_url"); candidate != "" {
				urls = append(urls, candidate)
			}
		}
	}
	return urls
}

// 3) flat 'media' list
func fromMediaList(doc map[string]any) []string {
	items, ok := asList(doc["media"])
	if !ok {
		return nil
	}

	var urls []string
	for _, raw := range items {
		if item, ok := asObject(raw); ok {
			if candidate := firstURLField(item, "url", "download_url"); candidate != "" {
				urls = append(urls, candidate)
			}
		}
	}
	return urls
}

// 4) nested 'result' or 'data': recurse the links/medias extraction one
// level down, or read direct media URL fields.
func fromContainer(doc map[string]any) []string {
	container := doc["result"]
	if container == nil {
		container = doc["data"]
	}

	if obj, ok := asObject(container); ok {
		nested := obj["links"]
		if nested == nil {
			nested = obj["medias"]
		}
		if urls := linksLike(nested); len(urls) > 0 {
			return urls
		}

		var urls []string
		for _, field := range []string{"download_url", "video_url", "image_url", "media_url", "url"} {
			if candidate, ok := obj[field].(string); ok && isHTTPURL(candidate) {
				urls = append(urls, candidate)
			}
		}
		return urls
	}

	if items, ok := asList(container); ok {
		var urls []string
		for _, raw := range items {
			if item, ok := asObject(raw); ok {
				if candidate := firstURLField(item, "url", "link", "download_url"); candidate != "" {
					urls = append(urls, candidate)
				}
			}
		}
		return urls
	}

	return nil
}

// 5) last resort: a top-level 'url', accepted only when it looks like a
// direct media file. A bare URL with no such signal is rejected so the bot
// never forwards arbitrary links.
func fromBareURL(doc map[string]any) []string {
	candidate, ok := doc["url"].(string)
	if !ok || !isHTTPURL(candidate) {
		return nil
	}
	if !entities.LooksLikeMediaFile(candidate) {
		return nil
	}
	return []string{candidate}
}

var audioExtensions = map[string]bool{
	"mp3": true, "m4a": true, "aac": true, "wav": true, "ogg": true,
}

var videoItemExtensions = map[string]bool{
	"mp4": true, "mov": true, "webm": true, "mkv": true, "m4v": true,
}

// isAudioItem detects audio-only entries. A video signal (type, extension
// or a resolution field) overrides the audio classification.
func isAudioItem(item map[string]any) bool {
	typ := strings.ToLower(stringField(item, "type"))
	mime := strings.ToLower(stringField(item, "mimeType", "mime"))
	ext := strings.ToLower(stringField(item, "extension"))

	audio := strings.Contains(mime, "audio") || typ == "audio" || audioExtensions[ext]

	if strings.Contains(typ, "video") || videoItemExtensions[ext] || hasScalar(item["resolution"]) {
		audio = false
	}
	return audio
}

func linksLike(value any) []string {
	items, ok := asList(value)
	if !ok {
		return nil
	}

	var urls []string
	for _, raw := range items {
		if item, ok := asObject(raw); ok {
			if candidate := firstURLField(item, "url", "link", "download_url"); candidate != "" {
				urls = append(urls, candidate)
			}
		}
	}
	return urls
}

func firstURLField(item map[string]any, fields ...string) string {
	for _, field := range fields {
		if candidate, ok := item[field].(string); ok && isHTTPURL(candidate) {
			return candidate
		}
	}
	return ""
}

func isHTTPURL(s string) bool {
	lowered := strings.ToLower(s)
	return strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://")
}

func stringField(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := item[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// itagValue tolerates both string and numeric itags
func itagValue(item map[string]any) string {
	switch v := item["itag"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func hasScalar(value any) bool {
	switch v := value.(type) {
	case string:
		return v != ""
	case float64, bool:
		return true
	default:
		return false
	}
}

// scalarString renders string or numeric scalars; anything else is absent
func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

func asObject(value any) (map[string]any, bool) {
	obj, ok := value.(map[string]any)
	return obj, ok
}

func asList(value any) ([]any, bool) {
	list, ok := value.([]any)
	return list, ok
}
