package health

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/observability"
)

func newTestMonitor(opts Options) *Monitor {
	opts.Logger = observability.NewNopLogger()
	return NewMonitor(opts)
}

func TestMonitorDecayAndRecovery(t *testing.T) {
	t.Run("three failures make the backend unhealthy", func(t *testing.T) {
		m := newTestMonitor(Options{})
		require.True(t, m.IsHealthy())

		m.RecordFailure()
		m.RecordFailure()
		assert.True(t, m.IsHealthy())
		m.RecordFailure()

		assert.False(t, m.IsHealthy())
		assert.Equal(t, 0, m.Score())
	})

	t.Run("online event restores full score", func(t *testing.T) {
		m := newTestMonitor(Options{})
		for i := 0; i < 3; i++ {
			m.RecordFailure()
		}

		m.ReportOnline(true)

		assert.True(t, m.IsHealthy())
		assert.Equal(t, FullScore, m.Score())
	})

	t.Run("score never goes below the floor", func(t *testing.T) {
		m := newTestMonitor(Options{})
		for i := 0; i < 10; i++ {
			m.RecordFailure()
		}
		assert.Equal(t, 0, m.Score())

		m.ReportOnline(true)
		m.RecordFailure()
		assert.True(t, m.IsHealthy(), "one failure after recovery keeps trust")
	})

	t.Run("offline is unhealthy regardless of score", func(t *testing.T) {
		m := newTestMonitor(Options{})
		m.ReportOnline(false)
		assert.False(t, m.IsHealthy())
		assert.Equal(t, FullScore, m.Score())
	})
}

func TestMonitorProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("successful probe restores trust while online", func(t *testing.T) {
		m := newTestMonitor(Options{Probe: func(context.Context) error { return nil }})
		for i := 0; i < 3; i++ {
			m.RecordFailure()
		}

		m.ProbeOnce(ctx)

		assert.True(t, m.IsHealthy())
	})

	t.Run("failed probe leaves the score alone", func(t *testing.T) {
		m := newTestMonitor(Options{Probe: func(context.Context) error { return errors.New("503") }})
		m.RecordFailure()

		m.ProbeOnce(ctx)

		assert.Equal(t, FullScore-1, m.Score())
	})

	t.Run("probe is skipped while offline", func(t *testing.T) {
		var calls atomic.Int32
		m := newTestMonitor(Options{Probe: func(context.Context) error { calls.Add(1); return nil }})
		m.ReportOnline(false)

		m.ProbeOnce(ctx)

		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestMonitorHeartbeat(t *testing.T) {
	ctx := context.Background()

	t.Run("heartbeat failures never touch the score", func(t *testing.T) {
		m := newTestMonitor(Options{Heartbeat: func(context.Context) error { return errors.New("timeout") }})

		for i := 0; i < 5; i++ {
			m.HeartbeatOnce(ctx)
		}

		assert.Equal(t, FullScore, m.Score())
		assert.True(t, m.IsHealthy())
	})

	t.Run("heartbeat is skipped when unhealthy", func(t *testing.T) {
		var calls atomic.Int32
		m := newTestMonitor(Options{Heartbeat: func(context.Context) error { calls.Add(1); return nil }})
		for i := 0; i < 3; i++ {
			m.RecordFailure()
		}

		m.HeartbeatOnce(ctx)

		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestMonitorTimers(t *testing.T) {
	var probes, beats atomic.Int32
	m := newTestMonitor(Options{
		Probe:             func(context.Context) error { probes.Add(1); return nil },
		Heartbeat:         func(context.Context) error { beats.Add(1); return nil },
		ProbeInterval:     10 * time.Millisecond,
		HeartbeatInterval: 15 * time.Millisecond,
	})

	m.Start(context.Background())
	m.Start(context.Background())

	assert.Eventually(t, func() bool {
		return probes.Load() >= 2 && beats.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	after := probes.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, probes.Load(), "no probes after Stop")
	m.Stop()
}

func TestMonitorOnChange(t *testing.T) {
	var mu sync.Mutex
	var seen []Status
	m := newTestMonitor(Options{OnChange: func(s Status) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}})

	m.ReportOnline(false)
	m.ReportOnline(true)
	m.ReportOnline(true)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.False(t, seen[0].Healthy)
	assert.True(t, seen[1].Healthy)
}
