package repository

import (
	"context"
	"database/sql"

	"github.com/condoguard/frontdesk/internal/models"
)

// UnitRepository caches the condominium's units
type UnitRepository struct {
	db *sql.DB
}

// NewUnitRepository creates a new UnitRepository
func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) query(ctx context.Context, where string, args ...interface{}) ([]models.Unit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, condo_id, block, number, floor, resident_name FROM units `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Unit
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.CondoID, &u.Block, &u.Number, &u.Floor, &u.Resident); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetByID returns the unit or nil
func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*models.Unit, error) {
	units, err := r.query(ctx, `WHERE id = ?`, id)
	if err != nil || len(units) == 0 {
		return nil, err
	}
	return &units[0], nil
}

// GetAll returns every cached unit
func (r *UnitRepository) GetAll(ctx context.Context) ([]models.Unit, error) {
	return r.query(ctx, `ORDER BY block, number`)
}

// GetByCondo returns the units of one condominium
func (r *UnitRepository) GetByCondo(ctx context.Context, condoID int64) ([]models.Unit, error) {
	return r.query(ctx, `WHERE condo_id = ? ORDER BY block, number`, condoID)
}

func putUnit(ctx context.Context, ex execer, u *models.Unit) error {
	_, err := ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO units (id, condo_id, block, number, floor, resident_name)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.CondoID, u.Block, u.Number, u.Floor, u.Resident,
	)
	return err
}

// Put upserts one unit
func (r *UnitRepository) Put(ctx context.Context, u *models.Unit) error {
	return putUnit(ctx, r.db, u)
}

// BulkPut upserts units in one transaction
func (r *UnitRepository) BulkPut(ctx context.Context, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range units {
			if err := putUnit(ctx, tx, &units[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a unit
func (r *UnitRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	return err
}
