package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/repository"
)

// DeviceService resolves which condominium this device serves. The binding
// is kept in the settings table and mirrored to a flat backup file.
type DeviceService struct {
	store   *repository.Store
	backup  *repository.ConfigBackup
	gateway Gateway
	health  HealthGate
	events  EventPublisher
	logger  *observability.Logger

	name       string
	appVersion string
	now        func() time.Time

	mu         sync.RWMutex
	state      models.DeviceState
	config     *models.DeviceConfig
	identifier string
}

// DeviceOptions configures a DeviceService
type DeviceOptions struct {
	Store      *repository.Store
	Backup     *repository.ConfigBackup
	Gateway    Gateway
	Health     HealthGate
	Events     EventPublisher
	Logger     *observability.Logger
	Name       string
	AppVersion string
	Clock      func() time.Time
}

// NewDeviceService creates a new DeviceService in the UNCONFIGURED state
func NewDeviceService(opts DeviceOptions) *DeviceService {
	logger := opts.Logger
	if logger == nil {
		logger = observability.GetLogger()
	}
	events := opts.Events
	if events == nil {
		events = nopPublisher{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	name := opts.Name
	if name == "" {
		name, _ = os.Hostname()
	}
	return &DeviceService{
		store:      opts.Store,
		backup:     opts.Backup,
		gateway:    opts.Gateway,
		health:     opts.Health,
		events:     events,
		logger:     logger.WithField("component", "device"),
		name:       name,
		appVersion: opts.AppVersion,
		now:        clock,
		state:      models.DeviceUnconfigured,
	}
}

// State returns the last resolved configuration state
func (s *DeviceService) State() models.DeviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identifier returns the device identifier, minting one on first use. A
// restored backup brings its identifier back with it.
func (s *DeviceService) Identifier(ctx context.Context) (string, error) {
	s.mu.RLock()
	id := s.identifier
	s.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	id, err := s.store.Settings.Get(ctx, repository.SettingDeviceIdentifier)
	if err != nil {
		return "", fmt.Errorf("failed to read device identifier: %w", err)
	}
	if id == "" {
		if cfg, err := s.backup.Load(); err == nil && cfg != nil {
			id = cfg.DeviceIdentifier
		}
	}
	if id == "" {
		id = uuid.NewString()
		s.logger.WithField("device_id", id).Info("Minted device identifier")
	}
	if err := s.store.Settings.Set(ctx, repository.SettingDeviceIdentifier, id); err != nil {
		return "", fmt.Errorf("failed to save device identifier: %w", err)
	}

	s.mu.Lock()
	s.identifier = id
	s.mu.Unlock()
	return id, nil
}

// IsConfigured resolves the configuration state, cross-checking the
// backend registry when it is reachable. It returns false for both an
// unconfigured and a blocked device; State tells them apart.
func (s *DeviceService) IsConfigured(ctx context.Context) (bool, error) {
	ctx, span := observability.StartServiceSpan(ctx, "DeviceService", "IsConfigured")
	defer span.End()

	cfg, err := s.loadPrimary(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return false, err
	}

	if cfg == nil {
		cfg, err = s.backup.Load()
		if err != nil {
			s.logger.WithError(err).Warn("Config backup unreadable")
			cfg = nil
		}
		if cfg != nil {
			if err := s.store.Settings.SetJSON(ctx, repository.SettingDeviceConfig, cfg); err != nil {
				return false, fmt.Errorf("failed to restore device config: %w", err)
			}
			s.logger.WithField("condo_id", cfg.CondoID).Warn("Device config restored from backup")
		}
	}

	if cfg != nil {
		return s.verifyLocal(ctx, cfg)
	}
	return s.adoptRemote(ctx)
}

func (s *DeviceService) verifyLocal(ctx context.Context, cfg *models.DeviceConfig) (bool, error) {
	blocked, err := s.store.Settings.Get(ctx, repository.SettingDeviceBlocked)
	if err != nil {
		return false, err
	}

	if !s.health.IsHealthy() {
		if blocked == "true" {
			s.setState(models.DeviceBlocked, cfg)
			return false, nil
		}
		s.setState(models.DeviceConfiguredLocalOnly, cfg)
		return true, nil
	}

	rec, err := s.gateway.GetDevice(ctx, cfg.DeviceIdentifier)
	if err != nil {
		s.health.RecordFailure()
		s.logger.WithError(err).Warn("Device registry check failed")
		if blocked == "true" {
			s.setState(models.DeviceBlocked, cfg)
			return false, nil
		}
		s.setState(models.DeviceConfiguredLocalOnly, cfg)
		return true, nil
	}

	if rec == nil {
		// registry lag is not fatal
		s.setState(models.DeviceConfiguredLocalOnly, cfg)
		return true, nil
	}

	if !rec.IsActive() {
		if err := s.store.Settings.Set(ctx, repository.SettingDeviceBlocked, "true"); err != nil {
			return false, err
		}
		s.logger.WithField("status", string(rec.Status)).Warn("Device deactivated remotely")
		s.setState(models.DeviceBlocked, cfg)
		return false, nil
	}
	if blocked != "" {
		if err := s.store.Settings.Delete(ctx, repository.SettingDeviceBlocked); err != nil {
			return false, err
		}
	}

	if rec.CondoID != nil && *rec.CondoID != cfg.CondoID {
		corrected, err := s.bind(ctx, cfg.DeviceIdentifier, *rec.CondoID)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to adopt remote condominium assignment")
			s.setState(models.DeviceConfiguredLocalOnly, cfg)
			return true, nil
		}
		s.logger.WithFields(map[string]interface{}{
			"old_condo_id": cfg.CondoID,
			"condo_id":     corrected.CondoID,
		}).Warn("Condominium assignment corrected from registry")
		cfg = corrected
	}

	if existing, err := s.backup.Load(); err == nil && existing == nil {
		if err := s.backup.Save(cfg); err != nil {
			s.logger.WithError(err).Warn("Failed to refresh config backup")
		}
	}

	s.setState(models.DeviceConfiguredVerified, cfg)
	return true, nil
}

// adoptRemote looks the device up in the registry when nothing is stored locally
func (s *DeviceService) adoptRemote(ctx context.Context) (bool, error) {
	if !s.health.IsHealthy() {
		s.setState(models.DeviceUnconfigured, nil)
		return false, nil
	}

	id, err := s.Identifier(ctx)
	if err != nil {
		return false, err
	}

	rec, err := s.gateway.GetDevice(ctx, id)
	if err != nil {
		s.health.RecordFailure()
		s.logger.WithError(err).Warn("Device registry lookup failed")
		s.setState(models.DeviceUnconfigured, nil)
		return false, nil
	}
	if rec == nil || rec.CondoID == nil {
		s.setState(models.DeviceUnconfigured, nil)
		return false, nil
	}
	if !rec.IsActive() {
		s.setState(models.DeviceBlocked, nil)
		return false, nil
	}

	cfg, err := s.bind(ctx, id, *rec.CondoID)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to adopt registry configuration")
		s.setState(models.DeviceUnconfigured, nil)
		return false, nil
	}
	s.logger.WithField("condo_id", cfg.CondoID).Info("Device configuration recovered from registry")
	s.setState(models.DeviceConfiguredVerified, cfg)
	return true, nil
}

// bind fetches the condominium and persists the binding in both places
func (s *DeviceService) bind(ctx context.Context, identifier string, condoID int64) (*models.DeviceConfig, error) {
	condo, err := s.gateway.GetCondominium(ctx, condoID)
	if err != nil {
		s.health.RecordFailure()
		return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	if condo == nil {
		return nil, fmt.Errorf("condominium %d: %w", condoID, models.ErrNotFound)
	}

	cfg := &models.DeviceConfig{
		DeviceIdentifier: identifier,
		CondoID:          condo.ID,
		Condominium:      *condo,
		ConfiguredAt:     s.now().UTC(),
	}
	if err := s.persist(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *DeviceService) persist(ctx context.Context, cfg *models.DeviceConfig) error {
	if err := s.store.Settings.SetJSON(ctx, repository.SettingDeviceConfig, cfg); err != nil {
		return fmt.Errorf("failed to save device config: %w", err)
	}
	if err := s.backup.Save(cfg); err != nil {
		s.logger.WithError(err).Warn("Failed to write config backup")
	}
	return nil
}

func (s *DeviceService) loadPrimary(ctx context.Context) (*models.DeviceConfig, error) {
	var cfg models.DeviceConfig
	found, err := s.store.Settings.GetJSON(ctx, repository.SettingDeviceConfig, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read device config: %w", err)
	}
	if !found || cfg.CondoID <= 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (s *DeviceService) setState(state models.DeviceState, cfg *models.DeviceConfig) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.config = cfg
	if cfg != nil && cfg.DeviceIdentifier != "" {
		s.identifier = cfg.DeviceIdentifier
	}
	s.mu.Unlock()

	if prev != state {
		s.logger.WithFields(map[string]interface{}{"from": string(prev), "to": string(state)}).Info("Device state changed")
		s.events.Publish(TopicDevice, WSTypeDeviceState, models.DeviceConfiguredResponse{Configured: state.Configured(), State: state})
	}
}

// current returns the binding without touching the backend, loading it
// from the store on first use
func (s *DeviceService) current(ctx context.Context) (*models.DeviceConfig, error) {
	s.mu.RLock()
	state, cfg := s.state, s.config
	s.mu.RUnlock()

	if state == models.DeviceBlocked {
		return nil, models.ErrDeviceBlocked
	}
	if cfg != nil {
		return cfg, nil
	}

	cfg, err := s.loadPrimary(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		if cfg, _ = s.backup.Load(); cfg == nil {
			return nil, models.ErrDeviceNotConfigured
		}
	}
	blocked, err := s.store.Settings.Get(ctx, repository.SettingDeviceBlocked)
	if err != nil {
		return nil, err
	}
	if blocked == "true" {
		s.setState(models.DeviceBlocked, cfg)
		return nil, models.ErrDeviceBlocked
	}
	s.setState(models.DeviceConfiguredLocalOnly, cfg)
	return cfg, nil
}

// CondoID returns the condominium scope for data operations
func (s *DeviceService) CondoID(ctx context.Context) (int64, error) {
	cfg, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.CondoID, nil
}

// CondoDetails returns the bound condominium, refreshed from the backend
// when it is reachable
func (s *DeviceService) CondoDetails(ctx context.Context) (*models.Condominium, error) {
	cfg, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if !s.health.IsHealthy() {
		condo := cfg.Condominium
		return &condo, nil
	}

	fresh, err := s.gateway.GetCondominium(ctx, cfg.CondoID)
	if err != nil {
		s.health.RecordFailure()
		s.logger.WithError(err).Debug("Condominium refresh failed, using cached details")
	}
	if err == nil && fresh != nil && *fresh != cfg.Condominium {
		updated := *cfg
		updated.Condominium = *fresh
		if err := s.persist(ctx, &updated); err == nil {
			s.mu.Lock()
			s.config = &updated
			s.mu.Unlock()
			cfg = &updated
		}
	}
	condo := cfg.Condominium
	return &condo, nil
}

// Configure binds the device to condoID and registers it with the backend.
// It needs the backend; there is no offline provisioning.
func (s *DeviceService) Configure(ctx context.Context, condoID int64) (*models.DeviceConfig, error) {
	ctx, span := observability.StartServiceSpan(ctx, "DeviceService", "Configure", observability.CondoID(condoID))
	defer span.End()

	if condoID <= 0 {
		return nil, models.ValidationError{Field: "condominiumId", Message: "condominium is required"}
	}
	if existing, err := s.loadPrimary(ctx); err != nil {
		return nil, err
	} else if existing != nil && existing.CondoID != condoID {
		return nil, models.ValidationError{Field: "condominiumId", Message: "device is bound to another condominium, reset it first"}
	}
	if !s.health.IsHealthy() {
		return nil, models.ErrBackendUnavailable
	}

	id, err := s.Identifier(ctx)
	if err != nil {
		return nil, err
	}

	condo, err := s.gateway.GetCondominium(ctx, condoID)
	if err != nil {
		s.health.RecordFailure()
		observability.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	if condo == nil {
		return nil, fmt.Errorf("condominium %d: %w", condoID, models.ErrNotFound)
	}

	rec := &models.DeviceRecord{
		Identifier:   id,
		Name:         s.name,
		CondoID:      &condoID,
		Status:       models.DeviceActive,
		Metadata:     s.metadata(),
		RegisteredAt: s.now().UTC(),
	}
	ok, err := s.gateway.RegisterDevice(ctx, rec)
	if err != nil {
		s.health.RecordFailure()
		observability.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	if !ok {
		return nil, errors.New("backend refused device registration")
	}

	cfg := &models.DeviceConfig{
		DeviceIdentifier: id,
		CondoID:          condo.ID,
		Condominium:      *condo,
		ConfiguredAt:     s.now().UTC(),
	}
	if err := s.persist(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.store.Settings.Delete(ctx, repository.SettingDeviceBlocked); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{"condo_id": condo.ID, "device_id": id}).Info("Device configured")
	s.setState(models.DeviceConfiguredVerified, cfg)
	observability.SetSuccess(span)
	return cfg, nil
}

func (s *DeviceService) metadata() models.DeviceMetadata {
	host, _ := os.Hostname()
	return models.DeviceMetadata{
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		AppVersion: s.appVersion,
		Hostname:   host,
	}
}

// Reset decommissions the device locally: the binding, its backup and every
// cached record are removed. The identifier survives so the registry entry
// still matches.
func (s *DeviceService) Reset(ctx context.Context) error {
	id, err := s.Identifier(ctx)
	if err != nil {
		return err
	}

	pendingVisits, _ := s.store.Visits.CountPending(ctx)
	pendingIncidents, _ := s.store.Incidents.CountPending(ctx)
	if pendingVisits+pendingIncidents > 0 {
		s.logger.WithFields(map[string]interface{}{
			"visits":    pendingVisits,
			"incidents": pendingIncidents,
		}).Warn("Discarding unsynced records on reset")
	}

	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear local store: %w", err)
	}
	if err := s.backup.Clear(); err != nil {
		return err
	}
	if err := s.store.Settings.Set(ctx, repository.SettingDeviceIdentifier, id); err != nil {
		return fmt.Errorf("failed to keep device identifier: %w", err)
	}

	s.logger.Info("Device reset")
	s.setState(models.DeviceUnconfigured, nil)
	return nil
}

// Heartbeat tells the registry this device is alive. It does nothing until
// the device is configured.
func (s *DeviceService) Heartbeat(ctx context.Context) error {
	if !s.State().Configured() {
		return nil
	}
	id, err := s.Identifier(ctx)
	if err != nil {
		return err
	}
	return s.gateway.UpdateHeartbeat(ctx, id)
}
