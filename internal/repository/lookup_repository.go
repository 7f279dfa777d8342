package repository

import (
	"context"
	"database/sql"

	"github.com/condoguard/frontdesk/internal/models"
)

// LookupRepository caches configuration lookups (visit types, service
// types, venues). Rows are keyed by kind and id.
type LookupRepository struct {
	db *sql.DB
}

// NewLookupRepository creates a new LookupRepository
func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// GetByKind returns the global entries of kind plus those scoped to condoID
func (r *LookupRepository) GetByKind(ctx context.Context, kind models.LookupKind, condoID int64) ([]models.Lookup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, id, condo_id, name, icon, requires_service_type
		FROM lookups WHERE kind = ? AND (condo_id = 0 OR condo_id = ?)
		ORDER BY name`, string(kind), condoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lookup
	for rows.Next() {
		var l models.Lookup
		var k string
		if err := rows.Scan(&k, &l.ID, &l.CondoID, &l.Name, &l.Icon, &l.RequiresServiceType); err != nil {
			return nil, err
		}
		l.Kind = models.LookupKind(k)
		out = append(out, l)
	}
	return out, rows.Err()
}

func putLookup(ctx context.Context, ex execer, l *models.Lookup) error {
	_, err := ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO lookups (kind, id, condo_id, name, icon, requires_service_type)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(l.Kind), l.ID, l.CondoID, l.Name, l.Icon, l.RequiresServiceType,
	)
	return err
}

// Put upserts one entry
func (r *LookupRepository) Put(ctx context.Context, l *models.Lookup) error {
	return putLookup(ctx, r.db, l)
}

// BulkPut upserts entries in one transaction
func (r *LookupRepository) BulkPut(ctx context.Context, lookups []models.Lookup) error {
	if len(lookups) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range lookups {
			if err := putLookup(ctx, tx, &lookups[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes one entry
func (r *LookupRepository) Delete(ctx context.Context, kind models.LookupKind, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM lookups WHERE kind = ? AND id = ?`, string(kind), id)
	return err
}
