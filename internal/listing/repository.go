package listing

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
	// searchLimit overrides defaultSearchLimit when positive.
	searchLimit int
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// defaultSearchLimit caps a search page. Filtering, the owner rating floor and
// the sort all run in SQL first, so the cap only drops the tail of the order.
const defaultSearchLimit = 500

const selectColumns = `
SELECT id, owner_id, COALESCE(inventory_id::text, ''), COALESCE(resort_portal_id::text, ''),
       ownership_type, COALESCE(season, ''), COALESCE(home_week, ''), points_power, COALESCE(inventory_notes, ''),
       resort_name, city, COALESCE(country, ''), check_in_date::text, check_out_date::text, unit_type,
       owner_price_cents, normal_price_cents, COALESCE(resort_booking_url, ''), COALESCE(description, ''),
       is_active, created_at
FROM listings
`

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	if err := row.Scan(
		&l.ID, &l.OwnerID, &l.InventoryID, &l.ResortPortalID,
		&l.OwnershipType, &l.Season, &l.HomeWeek, &l.PointsPower, &l.InventoryNotes,
		&l.ResortName, &l.City, &l.Country, &l.CheckInDate, &l.CheckOutDate, &l.UnitType,
		&l.OwnerPriceCents, &l.NormalPriceCents, &l.ResortBookingURL, &l.Description,
		&l.IsActive, &l.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func collect(rows pgx.Rows) ([]Listing, error) {
	defer rows.Close()
	out := []Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Search returns active listings matching p, ordered by p.Sort, with the owner
// rating floor applied. Owners without reviews never pass a floor.
func (r *Repository) Search(ctx context.Context, p SearchParams) ([]Listing, error) {
	q := selectColumns + `
WHERE is_active
  AND ($1 = '' OR resort_name ILIKE $1 OR city ILIKE $1)
  AND ($2::text IS NULL OR check_out_date > $2::text::date)
  AND ($3::text IS NULL OR check_in_date < $3::text::date)
  AND ($4::bigint IS NULL OR owner_price_cents >= $4::bigint)
  AND ($5::bigint IS NULL OR owner_price_cents <= $5::bigint)
  AND ($6 = '' OR lower(unit_type) = lower($6))
  AND ($7::float8 IS NULL OR (
        SELECT avg(ur.rating)::float8 FROM user_reviews ur WHERE ur.reviewed_user_id = listings.owner_id
      ) >= $7::float8)
ORDER BY
  CASE WHEN $8 = 'price_asc' THEN owner_price_cents END ASC,
  CASE WHEN $8 = 'price_desc' THEN owner_price_cents END DESC,
  CASE WHEN $8 = 'savings_desc' THEN normal_price_cents - owner_price_cents END DESC,
  check_in_date ASC, id ASC
LIMIT $9
`
	var pattern string
	if p.Query != "" {
		pattern = "%" + escapeLike(p.Query) + "%"
	}
	sortKey := p.Sort
	if sortKey == "" {
		sortKey = SortCheckIn
	}
	rows, err := r.db.Query(ctx, q,
		pattern, optionalText(p.CheckIn), optionalText(p.CheckOut),
		p.MinPriceCents, p.MaxPriceCents, p.UnitType,
		p.MinOwnerRating, string(sortKey), r.limit(),
	)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) limit() int {
	if r.searchLimit > 0 {
		return r.searchLimit
	}
	return defaultSearchLimit
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	return scanListing(r.db.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	rows, err := r.db.Query(ctx, selectColumns+`WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) Create(ctx context.Context, ownerID string, in CreateInput) (*Listing, error) {
	const q = `
INSERT INTO listings (owner_id, inventory_id, resort_portal_id, ownership_type, season, home_week, points_power,
                      inventory_notes, resort_name, city, country, check_in_date, check_out_date, unit_type,
                      owner_price_cents, normal_price_cents, resort_booking_url, description, is_active)
VALUES ($1, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid, $4, NULLIF($5, ''), NULLIF($6, ''), $7,
        NULLIF($8, ''), $9, $10, NULLIF($11, ''), $12::text::date, $13::text::date, $14,
        $15, $16, NULLIF($17, ''), NULLIF($18, ''), TRUE)
RETURNING id
`
	var id string
	if err := r.db.QueryRow(ctx, q,
		ownerID, in.InventoryID, in.ResortPortalID, string(in.OwnershipType), in.Season, in.HomeWeek, in.PointsPower,
		in.InventoryNotes, in.ResortName, in.City, in.Country, in.CheckInDate, in.CheckOutDate, in.UnitType,
		in.OwnerPriceCents, in.NormalPriceCents, in.ResortBookingURL, in.Description,
	).Scan(&id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// SetActive toggles visibility of one of the owner's listings.
func (r *Repository) SetActive(ctx context.Context, ownerID, id string, active bool) (*Listing, error) {
	tag, err := r.db.Exec(ctx, `UPDATE listings SET is_active = $3 WHERE id = $1 AND owner_id = $2`, id, ownerID, active)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) RecentPlaces(ctx context.Context, limit int) ([]Place, error) {
	const q = `
SELECT resort_name, city, COALESCE(country, '')
FROM listings
WHERE is_active
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Place{}
	for rows.Next() {
		var p Place
		if err := rows.Scan(&p.ResortName, &p.City, &p.Country); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OwnerRatingRows returns user_reviews scores about the given owners.
func (r *Repository) OwnerRatingRows(ctx context.Context, ownerIDs []string) ([]RatingRow, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT reviewed_user_id::text, rating
FROM user_reviews
WHERE reviewed_user_id::text = ANY($1::text[])
`
	return r.ratingRows(ctx, q, ownerIDs)
}

// ResortRatingRows returns resort_reviews scores keyed by ResortKey.
func (r *Repository) ResortRatingRows(ctx context.Context, resortNames []string) ([]RatingRow, error) {
	keys := make([]string, 0, len(resortNames))
	for _, n := range resortNames {
		keys = append(keys, ResortKey(n))
	}
	if len(keys) == 0 {
		return nil, nil
	}
	const q = `
SELECT lower(trim(resort_name)), rating
FROM resort_reviews
WHERE lower(trim(resort_name)) = ANY($1::text[])
`
	return r.ratingRows(ctx, q, keys)
}

func (r *Repository) ratingRows(ctx context.Context, q string, arg []string) ([]RatingRow, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RatingRow
	for rows.Next() {
		var rr RatingRow
		if err := rows.Scan(&rr.SubjectID, &rr.Rating); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
