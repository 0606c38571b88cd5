package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/apperr"
)

var ErrNotFound = fmt.Errorf("profile %w", apperr.ErrNotFound)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
SELECT id, COALESCE(full_name,''), COALESCE(role,''), account_status, COALESCE(status_reason,''),
       status_updated_at, created_at
FROM profiles
`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.FullName, &p.Role, &p.AccountStatus, &p.StatusReason, &p.StatusUpdatedAt, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
}

// NamesByID returns full names for the given ids; unknown ids are absent from the map.
func (r *Repository) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const q = `SELECT id, COALESCE(full_name,'') FROM profiles WHERE id::text = ANY($1::text[])`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context, status AccountStatus, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	q := selectColumns + `WHERE ($1 = '' OR account_status = $1) ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, q, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SetAccountStatus writes the moderation state. A nil reason clears it.
func SetAccountStatus(ctx context.Context, tx pgx.Tx, id string, status AccountStatus, reason *string, at time.Time) (*Profile, error) {
	q := `
UPDATE profiles
SET account_status = $2, status_reason = $3, status_updated_at = $4
WHERE id = $1
RETURNING id, COALESCE(full_name,''), COALESCE(role,''), account_status, COALESCE(status_reason,''),
          status_updated_at, created_at
`
	return scanProfile(tx.QueryRow(ctx, q, id, string(status), reason, at))
}
