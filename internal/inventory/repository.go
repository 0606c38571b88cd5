package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/apperr"
)

var ErrNotFound = fmt.Errorf("inventory template %w", apperr.ErrNotFound)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
SELECT id, owner_id, label, resort_name, city, COALESCE(country, ''), ownership_type,
       COALESCE(season, ''), COALESCE(home_week, ''), points_power, COALESCE(inventory_notes, ''),
       unit_type, COALESCE(resort_booking_url, ''), created_at
FROM owner_inventory
`

func scanTemplate(row pgx.Row) (*Template, error) {
	var t Template
	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Label, &t.ResortName, &t.City, &t.Country, &t.OwnershipType,
		&t.Season, &t.HomeWeek, &t.PointsPower, &t.InventoryNotes,
		&t.UnitType, &t.ResortBookingURL, &t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Template, error) {
	rows, err := r.db.Query(ctx, selectColumns+`WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetForOwner only returns templates that belong to ownerID.
func (r *Repository) GetForOwner(ctx context.Context, ownerID, id string) (*Template, error) {
	return scanTemplate(r.db.QueryRow(ctx, selectColumns+`WHERE id = $1 AND owner_id = $2`, id, ownerID))
}

func (r *Repository) Create(ctx context.Context, t Template) (*Template, error) {
	const q = `
INSERT INTO owner_inventory (owner_id, label, resort_name, city, country, ownership_type,
                             season, home_week, points_power, inventory_notes, unit_type, resort_booking_url)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''), $9, NULLIF($10, ''), $11, NULLIF($12, ''))
RETURNING id
`
	var id string
	if err := r.db.QueryRow(ctx, q,
		t.OwnerID, t.Label, t.ResortName, t.City, t.Country, string(t.OwnershipType),
		t.Season, t.HomeWeek, t.PointsPower, t.InventoryNotes, t.UnitType, t.ResortBookingURL,
	).Scan(&id); err != nil {
		return nil, err
	}
	return r.GetForOwner(ctx, t.OwnerID, id)
}

func (r *Repository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM owner_inventory WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
