package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/condoguard/frontdesk/internal/models"
)

const visitColumns = `id, client_ref, condo_id, visitor_name, visitor_doc, visitor_phone,
	visit_type_id, service_type_id, unit_id, restaurant_id, sport_id, vehicle_plate, reason,
	photo_url, photo_data, approval_mode, status, check_in_at, check_out_at, guard_id,
	device_id, sync_status, sync_attempts`

// VisitRepository stores the gate log
type VisitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new VisitRepository
func NewVisitRepository(db *sql.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func scanVisit(rs rowScanner) (*models.Visit, error) {
	var v models.Visit
	var serviceType, unit, restaurant, sport sql.NullInt64
	var checkOut sql.NullTime
	var syncStatus, status, mode string

	err := rs.Scan(
		&v.ID, &v.ClientRef, &v.CondoID, &v.VisitorName, &v.VisitorDoc, &v.VisitorPhone,
		&v.VisitTypeID, &serviceType, &unit, &restaurant, &sport, &v.VehiclePlate, &v.Reason,
		&v.PhotoURL, &v.PhotoData, &mode, &status, &v.CheckInAt, &checkOut, &v.GuardID,
		&v.DeviceID, &syncStatus, &v.SyncAttempts,
	)
	if err != nil {
		return nil, err
	}

	v.ServiceTypeID = nullInt64Ptr(serviceType)
	v.UnitID = nullInt64Ptr(unit)
	v.RestaurantID = nullInt64Ptr(restaurant)
	v.SportID = nullInt64Ptr(sport)
	v.CheckOutAt = nullTimePtr(checkOut)
	v.CheckInAt = v.CheckInAt.UTC()
	v.ApprovalMode = models.ApprovalMode(mode)
	v.Status = models.VisitStatus(status)
	v.SyncStatus = models.SyncStatus(syncStatus)
	return &v, nil
}

func (r *VisitRepository) query(ctx context.Context, where string, args ...interface{}) ([]models.Visit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+visitColumns+` FROM visits `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []models.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

// GetByID returns the visit or nil when it is not stored
func (r *VisitRepository) GetByID(ctx context.Context, id models.RecordID) (*models.Visit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+visitColumns+` FROM visits WHERE id = ?`, id.Key())
	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// GetByClientRef returns the visit minted with the given client reference
func (r *VisitRepository) GetByClientRef(ctx context.Context, ref string) (*models.Visit, error) {
	if ref == "" {
		return nil, nil
	}
	visits, err := r.query(ctx, `WHERE client_ref = ? ORDER BY id DESC LIMIT 1`, ref)
	if err != nil || len(visits) == 0 {
		return nil, err
	}
	return &visits[0], nil
}

// GetAll returns every stored visit
func (r *VisitRepository) GetAll(ctx context.Context) ([]models.Visit, error) {
	return r.query(ctx, `ORDER BY check_in_at DESC`)
}

// GetByCondoBetween returns the condominium's visits checked in within [from, to)
func (r *VisitRepository) GetByCondoBetween(ctx context.Context, condoID int64, from, to time.Time) ([]models.Visit, error) {
	return r.query(ctx, `WHERE condo_id = ? AND check_in_at >= ? AND check_in_at < ? ORDER BY check_in_at DESC`,
		condoID, from.UTC(), to.UTC())
}

// GetPending returns visits awaiting replay, oldest first
func (r *VisitRepository) GetPending(ctx context.Context) ([]models.Visit, error) {
	return r.query(ctx, `WHERE sync_status = ? ORDER BY check_in_at ASC, id ASC`, models.SyncStatusPending)
}

// CountPending counts visits awaiting replay
func (r *VisitRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE sync_status = ?`, models.SyncStatusPending).Scan(&n)
	return n, err
}

func putVisit(ctx context.Context, ex execer, v *models.Visit) error {
	_, err := ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO visits (`+visitColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID.Key(), v.ClientRef, v.CondoID, v.VisitorName, v.VisitorDoc, v.VisitorPhone,
		v.VisitTypeID, v.ServiceTypeID, v.UnitID, v.RestaurantID, v.SportID, v.VehiclePlate, v.Reason,
		v.PhotoURL, v.PhotoData, string(v.ApprovalMode), string(v.Status), v.CheckInAt.UTC(), utcPtr(v.CheckOutAt), v.GuardID,
		v.DeviceID, string(v.SyncStatus), v.SyncAttempts, time.Now().UTC(),
	)
	return err
}

// Put upserts one visit by id
func (r *VisitRepository) Put(ctx context.Context, v *models.Visit) error {
	return putVisit(ctx, r.db, v)
}

// BulkPut upserts visits in one transaction
func (r *VisitRepository) BulkPut(ctx context.Context, visits []models.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range visits {
			if err := putVisit(ctx, tx, &visits[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace swaps the copy stored under oldID for v atomically. Used when a
// temporary record is confirmed under its server id.
func (r *VisitRepository) Replace(ctx context.Context, oldID models.RecordID, v *models.Visit) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if oldID != v.ID {
			if _, err := tx.ExecContext(ctx, `DELETE FROM visits WHERE id = ?`, oldID.Key()); err != nil {
				return err
			}
		}
		return putVisit(ctx, tx, v)
	})
}

// Delete removes a visit by id
func (r *VisitRepository) Delete(ctx context.Context, id models.RecordID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = ?`, id.Key())
	return err
}

// BulkDelete removes visits by id
func (r *VisitRepository) BulkDelete(ctx context.Context, ids []models.RecordID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id IN (`+placeholders(len(ids))+`)`, recordKeys(ids)...)
	return err
}
