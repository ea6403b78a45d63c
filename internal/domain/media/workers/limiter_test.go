package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2, 5, zerolog.Nop())

	require.NoError(t, l.Acquire(context.Background(), 1))
	require.NoError(t, l.Acquire(context.Background(), 2))
	assert.Equal(t, 2, l.InFlight())

	l.Release(1)
	l.Release(2)
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_PerUserCapIsImmediate(t *testing.T) {
	l := NewLimiter(10, 2, zerolog.Nop())

	require.NoError(t, l.Acquire(context.Background(), 7))
	require.NoError(t, l.Acquire(context.Background(), 7))

	err := l.Acquire(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBusy))

	// Another user is unaffected
	require.NoError(t, l.Acquire(context.Background(), 8))
}

func TestLimiter_GlobalSlotBlocksUntilRelease(t *testing.T) {
	l := NewLimiter(1, 5, zerolog.Nop())

	require.NoError(t, l.Acquire(context.Background(), 1))

	acquired := make(chan error, 1)
	go func() {
		acquired <- l.Acquire(context.Background(), 2)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while the slot is held")
	case <-time.After(50 * time.Millisecond):
	}

	l.Release(1)

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second acquire never got the released slot")
	}
	l.Release(2)
}

func TestLimiter_ContextCancellationFreesUserSlot(t *testing.T) {
	l := NewLimiter(1, 1, zerolog.Nop())

	require.NoError(t, l.Acquire(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	l.Release(1)

	// User 2's per-user slot must have been returned on cancellation
	require.NoError(t, l.Acquire(context.Background(), 2))
	l.Release(2)
}
