package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/condoguard/frontdesk/internal/observability"
)

const DefaultReplayInterval = 2 * time.Minute

// ReplayStatus represents the current state of the replay loop
type ReplayStatus struct {
	Running          bool      `json:"running"`
	Enabled          bool      `json:"enabled"`
	LastRun          time.Time `json:"lastRun,omitempty"`
	LastRunDuration  string    `json:"lastRunDuration,omitempty"`
	LastSynced       int       `json:"lastSynced"`
	LastError        string    `json:"lastError,omitempty"`
	NextScheduledRun time.Time `json:"nextScheduledRun,omitempty"`
}

// Replayer is the queue drain the scheduler drives
type Replayer interface {
	SyncPendingItems(ctx context.Context) (int, error)
}

// ReplayScheduler drains the pending queue periodically and after the
// device comes back online
type ReplayScheduler struct {
	replayer Replayer
	interval time.Duration
	logger   *observability.Logger

	mu       sync.RWMutex
	running  bool
	stopChan chan struct{}
	ticker   *time.Ticker
	status   ReplayStatus
	wg       sync.WaitGroup
	degraded atomic.Bool
}

// NewReplayScheduler creates a new ReplayScheduler
func NewReplayScheduler(replayer Replayer, interval time.Duration, logger *observability.Logger) *ReplayScheduler {
	if interval <= 0 {
		interval = DefaultReplayInterval
	}
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &ReplayScheduler{
		replayer: replayer,
		interval: interval,
		logger:   logger.WithField("component", "replay"),
	}
}

// Start begins the background replay loop
func (s *ReplayScheduler) Start() {
	s.mu.Lock()
	if s.ticker != nil {
		s.mu.Unlock()
		return
	}
	s.stopChan = make(chan struct{})
	s.ticker = time.NewTicker(s.interval)
	s.status.Enabled = true
	s.status.NextScheduledRun = time.Now().Add(s.interval)
	ticker, stop := s.ticker, s.stopChan
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.WithField("interval", s.interval.String()).Info("Replay scheduler started")

	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				s.status.NextScheduledRun = time.Now().Add(s.interval)
				s.mu.Unlock()
				s.run()
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	s.RunNow()
}

// Stop halts the loop and waits for a pass in progress
func (s *ReplayScheduler) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.ticker = nil
	s.status.Enabled = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Replay scheduler stopped")
}

// GetStatus returns the current replay status
func (s *ReplayScheduler) GetStatus() ReplayStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// RunNow triggers an immediate pass in the background
func (s *ReplayScheduler) RunNow() {
	s.mu.RLock()
	if s.ticker == nil {
		s.mu.RUnlock()
		return
	}
	s.wg.Add(1)
	s.mu.RUnlock()

	go func() {
		defer s.wg.Done()
		s.run()
	}()
}

// OnReconnect is meant for the health monitor's change callback. It runs
// a pass when the backend turns healthy again after an outage.
func (s *ReplayScheduler) OnReconnect(healthy bool) {
	if !healthy {
		s.degraded.Store(true)
		return
	}
	if s.degraded.Swap(false) {
		s.RunNow()
	}
}

func (s *ReplayScheduler) run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.status.Running = true
	s.mu.Unlock()

	start := time.Now()
	synced, err := s.replayer.SyncPendingItems(context.Background())
	duration := time.Since(start)

	s.mu.Lock()
	s.running = false
	s.status.Running = false
	s.status.LastRun = start
	s.status.LastRunDuration = duration.Round(time.Millisecond).String()
	s.status.LastSynced = synced
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("Replay pass failed")
	}
}
