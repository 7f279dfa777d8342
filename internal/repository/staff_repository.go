package repository

import (
	"context"
	"database/sql"

	"github.com/condoguard/frontdesk/internal/models"
)

// StaffRepository caches the staff roster, including PIN hashes for offline login
type StaffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, condo_id, first_name, last_name, role, photo_url, pin_hash`

func scanStaff(rs rowScanner) (*models.Staff, error) {
	var s models.Staff
	var role string
	if err := rs.Scan(&s.ID, &s.CondoID, &s.FirstName, &s.LastName, &role, &s.PhotoURL, &s.PinHash); err != nil {
		return nil, err
	}
	s.Role = models.StaffRole(role)
	return &s, nil
}

func (r *StaffRepository) query(ctx context.Context, where string, args ...interface{}) ([]models.Staff, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+staffColumns+` FROM staff `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetByID returns the staff member or nil
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.Staff, error) {
	s, err := scanStaff(r.db.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// GetAll returns the whole cached roster
func (r *StaffRepository) GetAll(ctx context.Context) ([]models.Staff, error) {
	return r.query(ctx, `ORDER BY first_name, last_name`)
}

// GetByCondo returns the roster of one condominium
func (r *StaffRepository) GetByCondo(ctx context.Context, condoID int64) ([]models.Staff, error) {
	return r.query(ctx, `WHERE condo_id = ? ORDER BY first_name, last_name`, condoID)
}

// FindByName matches names case-insensitively. SQLite's lower() only folds
// ASCII, so the comparison happens in Go.
func (r *StaffRepository) FindByName(ctx context.Context, first, last string) (*models.Staff, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Matches(first, last) {
			return &all[i], nil
		}
	}
	return nil, nil
}

// An empty incoming pin_hash keeps the cached one: roster refreshes from the
// backend never carry PIN material.
func putStaff(ctx context.Context, ex execer, s *models.Staff) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO staff (`+staffColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			condo_id = excluded.condo_id,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			role = excluded.role,
			photo_url = excluded.photo_url,
			pin_hash = CASE WHEN excluded.pin_hash = '' THEN staff.pin_hash ELSE excluded.pin_hash END`,
		s.ID, s.CondoID, s.FirstName, s.LastName, string(s.Role), s.PhotoURL, s.PinHash,
	)
	return err
}

// Put upserts one staff member
func (r *StaffRepository) Put(ctx context.Context, s *models.Staff) error {
	return putStaff(ctx, r.db, s)
}

// BulkPut upserts the roster in one transaction
func (r *StaffRepository) BulkPut(ctx context.Context, staff []models.Staff) error {
	if len(staff) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range staff {
			if err := putStaff(ctx, tx, &staff[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a staff member
func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
	return err
}
