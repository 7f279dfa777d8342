// Package health decides whether the front desk should try the backend at
// all. It combines the platform connectivity flag with a score that drops on
// every failed backend call and snaps back to full on any sign of recovery.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/condoguard/frontdesk/internal/observability"
)

const (
	// FullScore is the score after a reconnect or a successful probe
	FullScore = 3
	minScore  = 0

	DefaultProbeInterval     = 60 * time.Second
	DefaultHeartbeatInterval = 5 * time.Minute
	defaultCallTimeout       = 10 * time.Second
)

// Status is a snapshot published to listeners
type Status struct {
	Online  bool `json:"online"`
	Score   int  `json:"healthScore"`
	Healthy bool `json:"healthy"`
}

// Options configures a Monitor. Probe and Heartbeat may be nil.
type Options struct {
	// Probe is a cheap backend read; success restores full trust
	Probe func(ctx context.Context) error
	// Heartbeat tells the backend this device is alive. Its failures are
	// logged only and never lower the score.
	Heartbeat func(ctx context.Context) error

	ProbeInterval     time.Duration
	HeartbeatInterval time.Duration
	CallTimeout       time.Duration

	// OnChange is called after the healthy flag or the score changes
	OnChange func(Status)
	Logger   *observability.Logger
}

// Monitor tracks reachability of the backend. The score is only reachable
// through its methods.
type Monitor struct {
	opts   Options
	logger *observability.Logger

	mu     sync.RWMutex
	online bool
	score  int

	probing      atomic.Bool
	heartbeating atomic.Bool

	loopMu   sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewMonitor creates a monitor that starts online with full score
func NewMonitor(opts Options) *Monitor {
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = DefaultProbeInterval
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &Monitor{
		opts:   opts,
		logger: logger.WithField("component", "health"),
		online: true,
		score:  FullScore,
	}
}

// ReportOnline mirrors the platform connectivity signal. An online event
// restores full trust.
func (m *Monitor) ReportOnline(online bool) {
	m.mu.Lock()
	changed := m.online != online || (online && m.score != FullScore)
	m.online = online
	if online {
		m.score = FullScore
	}
	st := m.snapshotLocked()
	m.mu.Unlock()

	if changed {
		m.logger.WithFields(map[string]interface{}{"online": online, "score": st.Score}).Info("Connectivity changed")
		m.notify(st)
	}
}

// IsHealthy is the gate every backend call goes through
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online && m.score > minScore
}

// IsOnline reports the raw connectivity flag
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Score returns the current score for status displays
func (m *Monitor) Score() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.score
}

// Status returns a snapshot
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// RecordFailure lowers the score by one, never below zero
func (m *Monitor) RecordFailure() {
	m.mu.Lock()
	if m.score <= minScore {
		m.mu.Unlock()
		return
	}
	m.score--
	st := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.WithField("score", st.Score).Warn("Backend call failed")
	m.notify(st)
}

func (m *Monitor) restore() {
	m.mu.Lock()
	changed := m.score != FullScore
	m.score = FullScore
	st := m.snapshotLocked()
	m.mu.Unlock()

	if changed {
		m.logger.Info("Backend reachable again")
		m.notify(st)
	}
}

func (m *Monitor) snapshotLocked() Status {
	return Status{Online: m.online, Score: m.score, Healthy: m.online && m.score > minScore}
}

func (m *Monitor) notify(st Status) {
	if m.opts.OnChange != nil {
		m.opts.OnChange(st)
	}
}

// ProbeOnce runs one recovery probe. It is skipped while offline or when a
// previous probe is still in flight.
func (m *Monitor) ProbeOnce(ctx context.Context) {
	if m.opts.Probe == nil || !m.IsOnline() {
		return
	}
	if !m.probing.CompareAndSwap(false, true) {
		return
	}
	defer m.probing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, m.opts.CallTimeout)
	defer cancel()

	if err := m.opts.Probe(ctx); err != nil {
		m.logger.WithError(err).Debug("Health probe failed")
		return
	}
	m.restore()
}

// HeartbeatOnce sends one liveness signal when healthy
func (m *Monitor) HeartbeatOnce(ctx context.Context) {
	if m.opts.Heartbeat == nil || !m.IsHealthy() {
		return
	}
	if !m.heartbeating.CompareAndSwap(false, true) {
		return
	}
	defer m.heartbeating.Store(false)

	ctx, cancel := context.WithTimeout(ctx, m.opts.CallTimeout)
	defer cancel()

	if err := m.opts.Heartbeat(ctx); err != nil {
		m.logger.WithError(err).Warn("Heartbeat failed")
	}
}

// Start launches the probe and heartbeat timers. Calling Start twice is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.loopMu.Lock()
	defer m.loopMu.Unlock()
	if m.stopChan != nil {
		return
	}
	m.stopChan = make(chan struct{})

	m.wg.Add(2)
	go m.loop(ctx, m.opts.ProbeInterval, m.stopChan, m.ProbeOnce)
	go m.loop(ctx, m.opts.HeartbeatInterval, m.stopChan, m.HeartbeatOnce)

	m.logger.WithFields(map[string]interface{}{
		"probe_interval":     m.opts.ProbeInterval.String(),
		"heartbeat_interval": m.opts.HeartbeatInterval.String(),
	}).Info("Health monitor started")
}

func (m *Monitor) loop(ctx context.Context, every time.Duration, stop <-chan struct{}, run func(context.Context)) {
	defer m.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			run(ctx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop halts the timers and waits for an in-flight run to finish
func (m *Monitor) Stop() {
	m.loopMu.Lock()
	if m.stopChan == nil {
		m.loopMu.Unlock()
		return
	}
	close(m.stopChan)
	m.stopChan = nil
	m.loopMu.Unlock()

	m.wg.Wait()
}
