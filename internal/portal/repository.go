package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/apperr"
)

var ErrNotFound = fmt.Errorf("resort portal %w", apperr.ErrNotFound)

// Portal is a known resort booking site an owner can link a listing to.
type Portal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	LoginURL    string    `json:"loginUrl,omitempty"`
	DeepLinkURL string    `json:"deepLinkUrl,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookingLink prefers the deep link and falls back to the login page.
func (p Portal) BookingLink() string {
	if p.DeepLinkURL != "" {
		return p.DeepLinkURL
	}
	return p.LoginURL
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
SELECT id, name, COALESCE(brand, ''), COALESCE(login_url, ''), COALESCE(deep_link_url, ''),
       COALESCE(notes, ''), created_at
FROM resort_portals
`

func scanPortal(row pgx.Row) (*Portal, error) {
	var p Portal
	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.LoginURL, &p.DeepLinkURL, &p.Notes, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Portal, error) {
	return scanPortal(r.db.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
}

func (r *Repository) List(ctx context.Context) ([]Portal, error) {
	rows, err := r.db.Query(ctx, selectColumns+`ORDER BY brand NULLS LAST, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Portal{}
	for rows.Next() {
		p, err := scanPortal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
