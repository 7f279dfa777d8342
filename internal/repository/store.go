package repository

import (
	"context"
	"database/sql"
)

// Store groups the local tables of one device database
type Store struct {
	db        *sql.DB
	Visits    *VisitRepository
	Incidents *IncidentRepository
	Staff     *StaffRepository
	Units     *UnitRepository
	Lookups   *LookupRepository
	Settings  *SettingsRepository
}

// NewStore wires the repositories over db
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		Visits:    NewVisitRepository(db),
		Incidents: NewIncidentRepository(db),
		Staff:     NewStaffRepository(db),
		Units:     NewUnitRepository(db),
		Lookups:   NewLookupRepository(db),
		Settings:  NewSettingsRepository(db),
	}
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *sql.DB {
	return s.db
}

// ClearAll empties every table, used when the device is decommissioned
func (s *Store) ClearAll(ctx context.Context) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range []string{"visits", "incidents", "staff", "units", "lookups", "settings"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
