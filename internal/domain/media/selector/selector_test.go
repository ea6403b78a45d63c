package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

func candidate(url string, sizeMB int, verdict entities.SizeVerdict) entities.MediaCandidate {
	return entities.MediaCandidate{
		URL:     url,
		Type:    entities.GuessMediaType(url),
		SizeMB:  sizeMB,
		Verdict: verdict,
	}
}

func TestSelect_FormatAndItagRankBeforeSize(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/a.mp4", 40, entities.SizeKnownOK),
		candidate("https://cdn.example.com/b.webm", 10, entities.SizeKnownOK),
		candidate("https://cdn.example.com/c.mp4?itag=18", 45, entities.SizeKnownOK),
	}

	selected, err := Select(candidates, 1)
	require.NoError(t, err)
	require.Len(t, selected, 1)

	// itag=18 mp4 wins regardless of size ordering
	assert.Equal(t, "https://cdn.example.com/c.mp4?itag=18", selected[0].URL)
}

func TestSelect_FullOrdering(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/b.webm", 10, entities.SizeKnownOK),
		candidate("https://cdn.example.com/a.mp4", 40, entities.SizeKnownOK),
		candidate("https://cdn.example.com/c.mp4?itag=18", 45, entities.SizeKnownOK),
	}

	selected, err := Select(candidates, 0)
	require.NoError(t, err)
	require.Len(t, selected, 3)

	assert.Equal(t, "https://cdn.example.com/c.mp4?itag=18", selected[0].URL)
	assert.Equal(t, "https://cdn.example.com/a.mp4", selected[1].URL)
	assert.Equal(t, "https://cdn.example.com/b.webm", selected[2].URL)
}

func TestSelect_DropsKnownOver(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/big.mp4", 120, entities.SizeKnownOver),
		candidate("https://cdn.example.com/ok.mp4", 20, entities.SizeKnownOK),
	}

	selected, err := Select(candidates, 3)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "https://cdn.example.com/ok.mp4", selected[0].URL)
}

func TestSelect_OnlyOversizedCandidate(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/big.mp4", 120, entities.SizeKnownOver),
	}

	_, err := Select(candidates, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAllTooLarge), "must report no sendable variant, got %v", err)
}

func TestSelect_NoCandidatesIsDistinct(t *testing.T) {
	_, err := Select(nil, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNoMedia))
}

func TestSelect_UnknownSizeIsKept(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/mystery.mp4", 0, entities.SizeUnknown),
	}

	selected, err := Select(candidates, 1)
	require.NoError(t, err)
	require.Len(t, selected, 1)
}

func TestSelect_StableTieBreakByDiscoveryOrder(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/first.mp4", 30, entities.SizeKnownOK),
		candidate("https://cdn.example.com/second.mp4", 30, entities.SizeKnownOK),
	}

	selected, err := Select(candidates, 2)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "https://cdn.example.com/first.mp4", selected[0].URL)
	assert.Equal(t, "https://cdn.example.com/second.mp4", selected[1].URL)
}

func TestSelect_MimeQueryCountsAsMP4(t *testing.T) {
	candidates := []entities.MediaCandidate{
		candidate("https://cdn.example.com/stream?mime=video%2Fwebm", 10, entities.SizeKnownOK),
		candidate("https://cdn.example.com/stream?mime=video%2Fmp4", 20, entities.SizeKnownOK),
	}

	selected, err := Select(candidates, 2)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/stream?mime=video%2Fmp4", selected[0].URL)
}
