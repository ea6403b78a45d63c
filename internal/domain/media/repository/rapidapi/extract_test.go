package rapidapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func urlsOf(candidates []entities.MediaCandidate) []string {
	var urls []string
	for _, c := range candidates {
		urls = append(urls, c.URL)
	}
	return urls
}

func TestExtract_LinksListInOrderSkippingMalformed(t *testing.T) {
	doc := decode(t, `{
		"links": [
			{"url": "https://cdn.example.com/a.mp4"},
			{"quality": "720p"},
			{"link": "https://cdn.example.com/b.mp4"},
			{"url": 42},
			{"download_url": "https://cdn.example.com/c.jpg"},
			{"url": "ftp://cdn.example.com/d.mp4"},
			"not-an-object"
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{
		"https://cdn.example.com/a.mp4",
		"https://cdn.example.com/b.mp4",
		"https://cdn.example.com/c.jpg",
	}, urlsOf(got))
}

func TestExtract_MediasAudioOnlyExcludedEvenWithItag18(t *testing.T) {
	doc := decode(t, `{
		"medias": [
			{"url": "https://cdn.example.com/audio", "mimeType": "audio/mp4", "itag": "18"},
			{"url": "https://cdn.example.com/video", "mimeType": "video/mp4"}
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{"https://cdn.example.com/video"}, urlsOf(got))
}

func TestExtract_MediasResolutionOverridesAudioSignal(t *testing.T) {
	doc := decode(t, `{
		"medias": [
			{"url": "https://cdn.example.com/muxed", "mimeType": "audio/mp4", "resolution": "360p"}
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{"https://cdn.example.com/muxed"}, urlsOf(got))
}

func TestExtract_MediasTierOrdering(t *testing.T) {
	doc := decode(t, `{
		"medias": [
			{"url": "https://cdn.example.com/webm", "extension": "webm"},
			{"url": "https://cdn.example.com/mp4", "mimeType": "video/mp4"},
			{"url": "https://cdn.example.com/itag18", "mimeType": "video/mp4", "itag": 18}
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{
		"https://cdn.example.com/itag18",
		"https://cdn.example.com/mp4",
		"https://cdn.example.com/webm",
	}, urlsOf(got))
}

func TestExtract_MediasAllAudioFallsBackUnfiltered(t *testing.T) {
	doc := decode(t, `{
		"medias": [
			{"url": "https://cdn.example.com/track.mp3", "type": "audio"},
			{"url": "https://cdn.example.com/voice.m4a", "extension": "m4a"}
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{
		"https://cdn.example.com/track.mp3",
		"https://cdn.example.com/voice.m4a",
	}, urlsOf(got))
}

func TestExtract_FlatMediaList(t *testing.T) {
	doc := decode(t, `{
		"media": [
			{"url": "https://cdn.example.com/a.jpg"},
			{"download_url": "https://cdn.example.com/b.mp4"}
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.mp4",
	}, urlsOf(got))
}

func TestExtract_NestedResultLinks(t *testing.T) {
	doc := decode(t, `{
		"result": {
			"links": [
				{"url": "https://cdn.example.com/nested.mp4"}
			]
		}
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{"https://cdn.example.com/nested.mp4"}, urlsOf(got))
}

func TestExtract_NestedDataDirectFields(t *testing.T) {
	doc := decode(t, `{
		"data": {
			"video_url": "https://cdn.example.com/clip.mp4",
			"thumbnail": "ignored"
		}
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{"https://cdn.example.com/clip.mp4"}, urlsOf(got))
}

func TestExtract_NestedDataList(t *testing.T) {
	doc := decode(t, `{
		"data": [
			{"link": "https://cdn.example.com/one.jpg"},
			{"url": "https://cdn.example.com/two.jpg"}
		]
	}`)

	got := ExtractCandidates(doc)
	assert.Equal(t, []string{
		"https://cdn.example.com/one.jpg",
		"https://cdn.example.com/two.jpg",
	}, urlsOf(got))
}

func TestExtract_BareURLRequiresMediaExtension(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "media extension accepted",
			doc:  `{"url": "https://cdn.example.com/video.mp4"}`,
			want: []string{"https://cdn.example.com/video.mp4"},
		},
		{
			name: "non-media extension rejected",
			doc:  `{"url": "https://x/y.txt"}`,
			want: nil,
		},
		{
			name: "no extension rejected",
			doc:  `{"url": "https://example.com/watch"}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCandidates(decode(t, tt.doc))
			assert.Equal(t, tt.want, urlsOf(got))
		})
	}
}

func TestExtract_MalformedDocumentsYieldNothing(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `["https://cdn.example.com/a.mp4"]`},
		{"scalar", `"hello"`},
		{"empty object", `{}`},
		{"links not a list", `{"links": {"url": "https://cdn.example.com/a.mp4"}}`},
		{"null fields", `{"links": null, "medias": null, "media": null, "result": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractCandidates(decode(t, tt.doc)))
		})
	}
}

func TestExtract_CandidateTypesInferred(t *testing.T) {
	doc := decode(t, `{
		"links": [
			{"url": "https://cdn.example.com/a.mp4"},
			{"url": "https://cdn.example.com/b.jpg"},
			{"url": "https://cdn.example.com/c.bin"}
		]
	}`)

	got := ExtractCandidates(doc)
	require.Len(t, got, 3)
	assert.Equal(t, entities.MediaTypeVideo, got[0].Type)
	assert.Equal(t, entities.MediaTypePhoto, got[1].Type)
	assert.Equal(t, entities.MediaTypeFile, got[2].Type)
	for _, c := range got {
		assert.Equal(t, entities.SizeUnknown, c.Verdict)
	}
}

func TestExtractMetadata_TopLevel(t *testing.T) {
	doc := decode(t, `{
		"title": "Some reel",
		"author": "someone",
		"duration": 37,
		"thumbnail": "https://cdn.example.com/t.jpg",
		"links": [{"url": "https://cdn.example.com/a.mp4"}]
	}`)

	meta := ExtractMetadata(doc)
	assert.Equal(t, "Some reel", meta.Title)
	assert.Equal(t, "someone", meta.Author)
	assert.Equal(t, "37", meta.Duration)
	assert.Equal(t, "https://cdn.example.com/t.jpg", meta.Thumbnail)
}

func TestExtractMetadata_FallsBackToContainer(t *testing.T) {
	doc := decode(t, `{
		"data": {"title": "nested title", "source": "tiktok"}
	}`)

	meta := ExtractMetadata(doc)
	assert.Equal(t, "nested title", meta.Title)
	assert.Equal(t, "tiktok", meta.Source)
}

func TestExtractMetadata_AbsenceIsNotAnError(t *testing.T) {
	meta := ExtractMetadata(decode(t, `{"links": []}`))
	assert.True(t, meta.IsEmpty())
}
