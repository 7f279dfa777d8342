package handlers

import (
	"context"
	"time"

	"github.com/condoguard/frontdesk/internal/health"
	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/services"
)

// FrontDesk is the sync engine surface the kiosk UI drives
type FrontDesk interface {
	CheckOnline() bool
	PendingCount(ctx context.Context) (int, error)

	GetTodaysVisits(ctx context.Context) ([]models.Visit, error)
	CreateVisit(ctx context.Context, req models.CreateVisitRequest) (*models.Visit, error)
	UpdateVisitStatus(ctx context.Context, id models.RecordID, status models.VisitStatus) (*models.Visit, error)

	GetIncidents(ctx context.Context) ([]models.Incident, error)
	AcknowledgeIncident(ctx context.Context, id models.RecordID, staffID int64) (*models.Incident, error)
	ReportIncidentAction(ctx context.Context, id models.RecordID, notes string, status models.IncidentStatus) (*models.Incident, error)

	SyncPendingItems(ctx context.Context) (int, error)
	LastSyncAt(ctx context.Context) (*time.Time, error)

	GetLookups(ctx context.Context, kind models.LookupKind) ([]models.Lookup, error)
	GetUnits(ctx context.Context) ([]models.Unit, error)
	GetStaff(ctx context.Context) ([]models.Staff, error)
}

// Connectivity exposes the health monitor
type Connectivity interface {
	ReportOnline(online bool)
	Status() health.Status
}

// Devices is the device configuration surface
type Devices interface {
	State() models.DeviceState
	Identifier(ctx context.Context) (string, error)
	IsConfigured(ctx context.Context) (bool, error)
	CondoDetails(ctx context.Context) (*models.Condominium, error)
	Configure(ctx context.Context, condoID int64) (*models.DeviceConfig, error)
	Reset(ctx context.Context) error
}

// Authenticator logs staff in at the front desk
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Staff, error)
}

// ReplayStatusSource reports the background replay loop
type ReplayStatusSource interface {
	GetStatus() services.ReplayStatus
}

var (
	_ FrontDesk          = (*services.SyncService)(nil)
	_ Connectivity       = (*health.Monitor)(nil)
	_ Devices            = (*services.DeviceService)(nil)
	_ Authenticator      = (*services.AuthService)(nil)
	_ ReplayStatusSource = (*services.ReplayScheduler)(nil)
)
