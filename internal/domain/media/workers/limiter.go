// Package workers contains the download concurrency gate
package workers

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

// Limiter bounds how many resolutions run at once, with a per-user cap on
// top. It replaces the old task-queue scaffold: instead of queueing work it
// gates the pipeline directly, so a slot is either granted or the user is
// told to retry.
type Limiter struct {
	slots chan struct{}

	mu           sync.Mutex
	perUser      map[int64]int
	perUserLimit int

	logger zerolog.Logger
}

// NewLimiter creates a limiter with a global slot count and per-user cap
func NewLimiter(maxConcurrent, perUserLimit int, logger zerolog.Logger) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if perUserLimit <= 0 {
		perUserLimit = 1
	}
	return &Limiter{
		slots:        make(chan struct{}, maxConcurrent),
		perUser:      make(map[int64]int),
		perUserLimit: perUserLimit,
		logger:       logger.With().Str("component", "limiter").Logger(),
	}
}

// Acquire takes a slot for the chat. A user over the per-user cap gets
// errs.ErrBusy immediately; otherwise the call waits for a global slot or
// context cancellation.
func (l *Limiter) Acquire(ctx context.Context, chatID int64) error {
	l.mu.Lock()
	if l.perUser[chatID] >= l.perUserLimit {
		l.mu.Unlock()
		l.logger.Warn().Int64("chat_id", chatID).Msg("Per-user download cap reached")
		return errs.ErrBusy
	}
	l.perUser[chatID]++
	l.mu.Unlock()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(chatID)
		return ctx.Err()
	}
}

// Release returns the slot taken by Acquire
func (l *Limiter) Release(chatID int64) {
	<-l.slots
	l.release(chatID)
}

// InFlight returns the number of occupied global slots
func (l *Limiter) InFlight() int {
	return len(l.slots)
}

func (l *Limiter) release(chatID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.perUser[chatID] <= 1 {
		delete(l.perUser, chatID)
	} else {
		l.perUser[chatID]--
	}
}
