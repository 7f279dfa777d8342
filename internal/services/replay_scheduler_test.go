package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/observability"
)

type countingReplayer struct {
	calls atomic.Int32
	err   error
}

func (r *countingReplayer) SyncPendingItems(ctx context.Context) (int, error) {
	r.calls.Add(1)
	return 2, r.err
}

func TestReplayScheduler(t *testing.T) {
	t.Run("runs at start, on reconnect and on the timer", func(t *testing.T) {
		r := &countingReplayer{}
		s := NewReplayScheduler(r, 50*time.Millisecond, observability.NewNopLogger())
		s.Start()
		defer s.Stop()

		assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

		before := r.calls.Load()
		s.OnReconnect(false)
		s.OnReconnect(true)
		assert.Eventually(t, func() bool { return r.calls.Load() > before }, time.Second, 5*time.Millisecond)

		assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

		status := s.GetStatus()
		assert.True(t, status.Enabled)
		assert.Equal(t, 2, status.LastSynced)
	})

	t.Run("score changes while healthy do not trigger a pass", func(t *testing.T) {
		r := &countingReplayer{}
		s := NewReplayScheduler(r, time.Hour, observability.NewNopLogger())
		s.Start()
		defer s.Stop()
		require.Eventually(t, func() bool { return !s.GetStatus().Running && r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

		s.OnReconnect(true)
		s.OnReconnect(true)
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, int32(1), r.calls.Load())
	})

	t.Run("records the last error", func(t *testing.T) {
		r := &countingReplayer{err: errors.New("disk full")}
		s := NewReplayScheduler(r, time.Hour, observability.NewNopLogger())
		s.Start()
		assert.Eventually(t, func() bool { return s.GetStatus().LastError == "disk full" }, time.Second, 5*time.Millisecond)
		s.Stop()
		assert.False(t, s.GetStatus().Enabled)
	})

	t.Run("stopped scheduler ignores triggers", func(t *testing.T) {
		r := &countingReplayer{}
		s := NewReplayScheduler(r, time.Hour, observability.NewNopLogger())
		s.RunNow()
		s.Stop()
		time.Sleep(20 * time.Millisecond)
		assert.Zero(t, r.calls.Load())
	})
}
