package services

import (
	"context"
	"time"

	"github.com/condoguard/frontdesk/internal/gateway"
	"github.com/condoguard/frontdesk/internal/health"
	"github.com/condoguard/frontdesk/internal/models"
)

// Gateway is the backend as the sync engine sees it. *gateway.Client
// implements it; tests use an in-memory fake.
type Gateway interface {
	Ping(ctx context.Context) error

	ListLookups(ctx context.Context, kind models.LookupKind, condoID int64) ([]models.Lookup, error)
	ListUnits(ctx context.Context, condoID int64) ([]models.Unit, error)
	ListStaff(ctx context.Context, condoID int64) ([]models.Staff, error)
	ListVisits(ctx context.Context, condoID int64, from, to time.Time) ([]models.Visit, error)
	ListIncidents(ctx context.Context, condoID int64) ([]models.Incident, error)

	CreateVisit(ctx context.Context, v *models.Visit) (*models.Visit, error)
	FindVisitByClientRef(ctx context.Context, ref string) (*models.Visit, error)
	UpdateVisit(ctx context.Context, id int64, upd models.VisitUpdate) (bool, error)
	UpdateIncident(ctx context.Context, id int64, upd models.IncidentUpdate) (bool, error)
	UploadPhoto(ctx context.Context, dataURL string, condoID int64, label string) (string, error)

	GetDevice(ctx context.Context, identifier string) (*models.DeviceRecord, error)
	RegisterDevice(ctx context.Context, rec *models.DeviceRecord) (bool, error)
	UpdateHeartbeat(ctx context.Context, identifier string) error
	GetCondominium(ctx context.Context, id int64) (*models.Condominium, error)

	VerifyLogin(ctx context.Context, first, last, pin string) (*models.Staff, error)
}

// HealthGate is the only way services touch the health score
type HealthGate interface {
	IsHealthy() bool
	RecordFailure()
}

// EventPublisher pushes change notifications to the UI
type EventPublisher interface {
	Publish(topic, msgType string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, interface{}) {}

var (
	_ Gateway        = (*gateway.Client)(nil)
	_ HealthGate     = (*health.Monitor)(nil)
	_ EventPublisher = (*WebSocketHub)(nil)
)
