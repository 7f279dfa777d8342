package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/repository"
)

// Stoppable is anything with background timers to halt on shutdown
type Stoppable interface {
	Stop()
}

// SyncOptions wires a SyncService
type SyncOptions struct {
	Gateway  Gateway
	Health   HealthGate
	Store    *repository.Store
	Devices  *DeviceService
	Photos   *PhotoService
	Events   EventPublisher
	Metrics  *observability.SyncMetrics
	Logger   *observability.Logger
	Location *time.Location
	Clock    func() time.Time
	// Timers are stopped by Shutdown, typically the health monitor
	Timers []Stoppable
}

// SyncService is the offline-first front desk engine. Reads come from the
// local store and are refreshed from the backend when it is healthy; writes
// land locally first and are pushed now or replayed later.
type SyncService struct {
	gateway   Gateway
	health    HealthGate
	visits    repository.VisitRepo
	incidents repository.IncidentRepo
	staff     repository.StaffRepo
	units     repository.UnitRepo
	lookups   repository.LookupRepo
	settings  repository.SettingsRepo
	devices   *DeviceService
	photos    *PhotoService
	events    EventPublisher
	metrics   *observability.SyncMetrics
	logger    *observability.Logger
	location  *time.Location
	now       func() time.Time

	timersMu sync.Mutex
	timers   []Stoppable

	bgCtx    context.Context
	bgCancel context.CancelFunc
	tasks    sync.WaitGroup

	replayMu sync.Mutex
	tempSeq  atomic.Int64
	closed   atomic.Bool
}

// NewSyncService creates the engine. Call Shutdown to release it.
func NewSyncService(opts SyncOptions) *SyncService {
	logger := opts.Logger
	if logger == nil {
		logger = observability.GetLogger()
	}
	events := opts.Events
	if events == nil {
		events = nopPublisher{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	photos := opts.Photos
	if photos == nil {
		photos = NewPhotoService(0, 0, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SyncService{
		gateway:   opts.Gateway,
		health:    opts.Health,
		visits:    opts.Store.Visits,
		incidents: opts.Store.Incidents,
		staff:     opts.Store.Staff,
		units:     opts.Store.Units,
		lookups:   opts.Store.Lookups,
		settings:  opts.Store.Settings,
		devices:   opts.Devices,
		photos:    photos,
		events:    events,
		metrics:   opts.Metrics,
		logger:    logger.WithField("component", "sync"),
		location:  loc,
		now:       clock,
		timers:    opts.Timers,
		bgCtx:     ctx,
		bgCancel:  cancel,
	}
}

// AddTimers registers more timers for Shutdown to stop, for loops that
// need the service before they can be built
func (s *SyncService) AddTimers(timers ...Stoppable) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	s.timers = append(s.timers, timers...)
}

// CheckOnline reports whether the backend may be called right now
func (s *SyncService) CheckOnline() bool {
	return s.health.IsHealthy()
}

// Shutdown stops the timers, cancels background refreshes and waits for
// them, or for ctx to expire
func (s *SyncService) Shutdown(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.timersMu.Lock()
	timers := s.timers
	s.timersMu.Unlock()
	for _, t := range timers {
		t.Stop()
	}
	s.bgCancel()

	done := make(chan struct{})
	go func() {
		s.tasks.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("Sync service stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// detach runs fn in the background, bound to the service lifetime. Errors
// are logged and counted, never returned to the original caller.
func (s *SyncService) detach(entity string, fn func(ctx context.Context) error) {
	if s.closed.Load() {
		return
	}
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		if err := fn(s.bgCtx); err != nil && s.bgCtx.Err() == nil {
			s.metrics.RecordRefreshError(s.bgCtx, entity)
			s.logger.WithError(err).WithField("entity", entity).Warn("Background refresh failed")
		}
	}()
}

// remoteFailed records a failed backend call against the health score
func (s *SyncService) remoteFailed(ctx context.Context, op string, err error) {
	s.health.RecordFailure()
	s.metrics.RecordRemoteFailure(ctx, op)
	s.logger.WithContext(ctx).WithError(err).WithField("operation", op).Warn("Backend call failed")
}

// nextLocalID mints a temporary id that never collides with backend ids or
// with another temporary id minted by this process
func (s *SyncService) nextLocalID() models.RecordID {
	base := s.now().UnixMilli() * 1000
	for {
		prev := s.tempSeq.Load()
		next := base
		if next <= prev {
			next = prev + 1
		}
		if s.tempSeq.CompareAndSwap(prev, next) {
			return models.LocalID(next)
		}
	}
}

func newClientRef() string {
	return uuid.NewString()
}

// todayBounds returns [start of today, start of tomorrow) in the configured
// timezone
func (s *SyncService) todayBounds() (time.Time, time.Time) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1)
}

// PendingCount is the number of records waiting for replay
func (s *SyncService) PendingCount(ctx context.Context) (int, error) {
	v, err := s.visits.CountPending(ctx)
	if err != nil {
		return 0, err
	}
	i, err := s.incidents.CountPending(ctx)
	if err != nil {
		return 0, err
	}
	return v + i, nil
}
