package services

import (
	"context"
	"fmt"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/repository"
)

// AuthService logs staff in at the front desk. The backend decides when it
// is reachable; otherwise the cached roster and PIN hashes are used.
type AuthService struct {
	gateway Gateway
	health  HealthGate
	staff   repository.StaffRepo
	devices *DeviceService
	metrics *observability.SyncMetrics
	logger  *observability.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	gateway Gateway,
	health HealthGate,
	staff repository.StaffRepo,
	devices *DeviceService,
	metrics *observability.SyncMetrics,
	logger *observability.Logger,
) *AuthService {
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &AuthService{
		gateway: gateway,
		health:  health,
		staff:   staff,
		devices: devices,
		metrics: metrics,
		logger:  logger.WithField("component", "auth"),
	}
}

// Login checks a staff member's name and PIN for this device's condominium
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Staff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Login", observability.CondoID(condoID))
	defer span.End()

	if s.health.IsHealthy() {
		staff, err := s.gateway.VerifyLogin(ctx, req.FirstName, req.LastName, req.PIN)
		if err == nil {
			if staff == nil {
				return nil, models.ErrInvalidCredentials
			}
			if !staff.CanWorkAt(condoID) {
				return nil, models.ErrTenantMismatch
			}
			s.cache(ctx, staff, req.PIN)
			observability.SetSuccess(span)
			return staff, nil
		}

		s.health.RecordFailure()
		s.metrics.RecordRemoteFailure(ctx, "verify_login")
		s.logger.WithError(err).Warn("Remote login failed, checking cached roster")
	}

	staff, err := s.staff.FindByName(ctx, req.FirstName, req.LastName)
	if err != nil {
		return nil, fmt.Errorf("failed to read staff cache: %w", err)
	}
	if staff == nil || !staff.VerifyPIN(req.PIN) {
		return nil, models.ErrInvalidCredentials
	}
	if !staff.CanWorkAt(condoID) {
		return nil, models.ErrTenantMismatch
	}

	s.logger.WithField("staff_id", staff.ID).Info("Offline login")
	observability.SetSuccess(span)
	return staff, nil
}

// cache stores the staff member with a hash of the PIN that just worked
func (s *AuthService) cache(ctx context.Context, staff *models.Staff, pin string) {
	if err := staff.SetPIN(pin); err != nil {
		s.logger.WithError(err).Debug("PIN not cached")
	}
	if err := s.staff.Put(ctx, staff); err != nil {
		s.logger.WithError(err).Warn("Failed to cache staff member")
	}
}
