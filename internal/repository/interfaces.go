package repository

import (
	"context"
	"time"

	"github.com/condoguard/frontdesk/internal/models"
)

// VisitRepo is the visits table
type VisitRepo interface {
	GetByID(ctx context.Context, id models.RecordID) (*models.Visit, error)
	GetByClientRef(ctx context.Context, ref string) (*models.Visit, error)
	GetAll(ctx context.Context) ([]models.Visit, error)
	GetByCondoBetween(ctx context.Context, condoID int64, from, to time.Time) ([]models.Visit, error)
	GetPending(ctx context.Context) ([]models.Visit, error)
	CountPending(ctx context.Context) (int, error)
	Put(ctx context.Context, v *models.Visit) error
	BulkPut(ctx context.Context, visits []models.Visit) error
	Replace(ctx context.Context, oldID models.RecordID, v *models.Visit) error
	Delete(ctx context.Context, id models.RecordID) error
	BulkDelete(ctx context.Context, ids []models.RecordID) error
}

// IncidentRepo is the incidents table
type IncidentRepo interface {
	GetByID(ctx context.Context, id models.RecordID) (*models.Incident, error)
	GetAll(ctx context.Context) ([]models.Incident, error)
	GetByCondo(ctx context.Context, condoID int64) ([]models.Incident, error)
	GetPending(ctx context.Context) ([]models.Incident, error)
	CountPending(ctx context.Context) (int, error)
	Put(ctx context.Context, i *models.Incident) error
	BulkPut(ctx context.Context, incidents []models.Incident) error
	ReplaceSynced(ctx context.Context, condoID int64, fresh []models.Incident) error
	Delete(ctx context.Context, id models.RecordID) error
	BulkDelete(ctx context.Context, ids []models.RecordID) error
}

// StaffRepo is the cached staff roster
type StaffRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Staff, error)
	GetAll(ctx context.Context) ([]models.Staff, error)
	GetByCondo(ctx context.Context, condoID int64) ([]models.Staff, error)
	FindByName(ctx context.Context, first, last string) (*models.Staff, error)
	Put(ctx context.Context, s *models.Staff) error
	BulkPut(ctx context.Context, staff []models.Staff) error
	Delete(ctx context.Context, id int64) error
}

// UnitRepo is the cached unit directory
type UnitRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Unit, error)
	GetAll(ctx context.Context) ([]models.Unit, error)
	GetByCondo(ctx context.Context, condoID int64) ([]models.Unit, error)
	Put(ctx context.Context, u *models.Unit) error
	BulkPut(ctx context.Context, units []models.Unit) error
	Delete(ctx context.Context, id int64) error
}

// LookupRepo is the cached configuration lookups
type LookupRepo interface {
	GetByKind(ctx context.Context, kind models.LookupKind, condoID int64) ([]models.Lookup, error)
	Put(ctx context.Context, l *models.Lookup) error
	BulkPut(ctx context.Context, lookups []models.Lookup) error
	Delete(ctx context.Context, kind models.LookupKind, id int64) error
}

// SettingsRepo is the key/value settings table
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}) error
}

var (
	_ VisitRepo    = (*VisitRepository)(nil)
	_ IncidentRepo = (*IncidentRepository)(nil)
	_ StaffRepo    = (*StaffRepository)(nil)
	_ UnitRepo     = (*UnitRepository)(nil)
	_ LookupRepo   = (*LookupRepository)(nil)
	_ SettingsRepo = (*SettingsRepository)(nil)
)
