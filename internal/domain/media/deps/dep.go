// Package deps contains interface definitions for the media domain dependencies
package deps

import (
	"context"

	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
)

// Resolver resolves a submitted post link into direct media URLs via the
// upstream API
type Resolver interface {
	// Resolve calls the upstream API and extracts candidates and metadata.
	// Returns errs.ErrRateLimited on HTTP 429; any other upstream or parse
	// failure yields an empty result, not an error.
	Resolve(ctx context.Context, postURL string) (*entities.ResolutionResult, error)
}

// SizeProber determines a candidate's byte size without downloading it
type SizeProber interface {
	// Probe returns the size verdict for the URL against the ceiling.
	// Network failures are reported as SizeUnknown, never as errors.
	Probe(ctx context.Context, rawURL string, ceilingMB int) (entities.SizeVerdict, int)
}

// StreamFetcher downloads a resolved URL into memory for re-upload
type StreamFetcher interface {
	// Fetch buffers the body up to maxBytes, following a bounded number of
	// redirects. Returns errs.ErrStreamTooLarge when the cap is exceeded.
	Fetch(ctx context.Context, rawURL string, maxBytes int64) ([]byte, error)
}

// TelegramSender defines interface for sending messages via Telegram.
// This interface is used to break the cyclic dependency between UseCase
// and the Telegram handlers.
type TelegramSender interface {
	// SendMessage sends a text message to a chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendMessageAndGetID sends a text message and returns its message ID
	SendMessageAndGetID(ctx context.Context, chatID int64, text string) (messageID int, err error)

	// EditMessageText edits a previously sent message
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error

	// DeleteMessage deletes a message from the chat
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// SendChatAction sends a typing/upload indicator
	SendChatAction(ctx context.Context, chatID int64, action string) error

	// SendMediaByURL hands the raw URL to Telegram's typed send method
	SendMediaByURL(ctx context.Context, chatID int64, mediaType entities.MediaType, mediaURL, caption string) error

	// SendMediaBytes re-publishes a buffered payload as an attached file
	SendMediaBytes(ctx context.Context, chatID int64, mediaType entities.MediaType, filename string, data []byte, caption string) error
}

// UserRepository defines interface for user data access
type UserRepository interface {
	// Upsert creates or refreshes a user row on /start
	Upsert(ctx context.Context, user *entities.User) error

	// Count returns the total number of known users
	Count(ctx context.Context) (int64, error)
}

// DownloadRepository defines interface for download log data access
type DownloadRepository interface {
	// Log records a terminal pipeline outcome (best-effort at call sites)
	Log(ctx context.Context, download *entities.Download) error

	// Stats aggregates usage statistics for the admin
	Stats(ctx context.Context) (*entities.DownloadStats, error)
}

// DownloadEventProducer defines interface for publishing download events
type DownloadEventProducer interface {
	// SendDownloadCompleted publishes a successful download event
	SendDownloadCompleted(ctx context.Context, download *entities.Download) error

	// SendDownloadFailed publishes a failed download event
	SendDownloadFailed(ctx context.Context, download *entities.Download) error

	// Close closes the producer
	Close() error
}

// ResolutionCache memoizes resolved URL lists in front of the upstream call
type ResolutionCache interface {
	// Get returns the cached URL list, or false on miss/expiry
	Get(key string) ([]string, bool)

	// Set stores a non-empty URL list; empty lists are ignored
	Set(key string, urls []string)
}
