package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/condoguard/frontdesk/internal/models"
)

const incidentColumns = `id, condo_id, unit_id, resident_name, type, description, photo_url, status,
	reported_at, acknowledged_at, acknowledged_by, guard_notes, resolved_at, sync_status, sync_attempts`

// IncidentRepository stores resident incident reports
type IncidentRepository struct {
	db *sql.DB
}

// NewIncidentRepository creates a new IncidentRepository
func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func scanIncident(rs rowScanner) (*models.Incident, error) {
	var i models.Incident
	var unit, ackBy sql.NullInt64
	var ackAt, resolvedAt sql.NullTime
	var status, syncStatus string

	err := rs.Scan(
		&i.ID, &i.CondoID, &unit, &i.ResidentName, &i.Type, &i.Description, &i.PhotoURL, &status,
		&i.ReportedAt, &ackAt, &ackBy, &i.GuardNotes, &resolvedAt, &syncStatus, &i.SyncAttempts,
	)
	if err != nil {
		return nil, err
	}

	i.UnitID = nullInt64Ptr(unit)
	i.AcknowledgedBy = nullInt64Ptr(ackBy)
	i.AcknowledgedAt = nullTimePtr(ackAt)
	i.ResolvedAt = nullTimePtr(resolvedAt)
	i.ReportedAt = i.ReportedAt.UTC()
	i.Status = models.IncidentStatus(status)
	i.SyncStatus = models.SyncStatus(syncStatus)
	return &i, nil
}

func (r *IncidentRepository) query(ctx context.Context, where string, args ...interface{}) ([]models.Incident, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+incidentColumns+` FROM incidents `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		i, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *i)
	}
	return incidents, rows.Err()
}

// GetByID returns the incident or nil when it is not stored
func (r *IncidentRepository) GetByID(ctx context.Context, id models.RecordID) (*models.Incident, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?`, id.Key())
	i, err := scanIncident(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return i, err
}

// GetAll returns every stored incident
func (r *IncidentRepository) GetAll(ctx context.Context) ([]models.Incident, error) {
	return r.query(ctx, `ORDER BY reported_at DESC`)
}

// GetByCondo returns the condominium's incidents, newest first
func (r *IncidentRepository) GetByCondo(ctx context.Context, condoID int64) ([]models.Incident, error) {
	return r.query(ctx, `WHERE condo_id = ? ORDER BY reported_at DESC`, condoID)
}

// GetPending returns incidents with unconfirmed guard updates, oldest first
func (r *IncidentRepository) GetPending(ctx context.Context) ([]models.Incident, error) {
	return r.query(ctx, `WHERE sync_status = ? ORDER BY reported_at ASC, id ASC`, models.SyncStatusPending)
}

// CountPending counts incidents awaiting replay
func (r *IncidentRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents WHERE sync_status = ?`, models.SyncStatusPending).Scan(&n)
	return n, err
}

func putIncident(ctx context.Context, ex execer, i *models.Incident) error {
	_, err := ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO incidents (`+incidentColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID.Key(), i.CondoID, i.UnitID, i.ResidentName, i.Type, i.Description, i.PhotoURL, string(i.Status),
		i.ReportedAt.UTC(), utcPtr(i.AcknowledgedAt), i.AcknowledgedBy, i.GuardNotes, utcPtr(i.ResolvedAt),
		string(i.SyncStatus), i.SyncAttempts, time.Now().UTC(),
	)
	return err
}

// Put upserts one incident by id
func (r *IncidentRepository) Put(ctx context.Context, i *models.Incident) error {
	return putIncident(ctx, r.db, i)
}

// BulkPut upserts incidents in one transaction
func (r *IncidentRepository) BulkPut(ctx context.Context, incidents []models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range incidents {
			if err := putIncident(ctx, tx, &incidents[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceSynced drops every confirmed incident of the condominium and stores
// fresh in its place. Pending rows are left untouched, including when fresh
// carries an older copy of them.
func (r *IncidentRepository) ReplaceSynced(ctx context.Context, condoID int64, fresh []models.Incident) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM incidents WHERE condo_id = ? AND sync_status != ?`, condoID, models.SyncStatusPending,
		); err != nil {
			return err
		}
		for i := range fresh {
			var pending int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM incidents WHERE id = ? AND sync_status = ?`, fresh[i].ID.Key(), models.SyncStatusPending,
			).Scan(&pending); err != nil {
				return err
			}
			if pending > 0 {
				continue
			}
			if err := putIncident(ctx, tx, &fresh[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an incident by id
func (r *IncidentRepository) Delete(ctx context.Context, id models.RecordID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id = ?`, id.Key())
	return err
}

// BulkDelete removes incidents by id
func (r *IncidentRepository) BulkDelete(ctx context.Context, ids []models.RecordID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id IN (`+placeholders(len(ids))+`)`, recordKeys(ids)...)
	return err
}
