package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectColumns = `
SELECT b.id, b.offer_id, b.listing_id, b.traveler_id, b.owner_id, b.status,
       COALESCE(b.confirmation_number, ''), COALESCE(b.proof_file_path, ''), COALESCE(b.cancel_reason, ''),
       COALESCE(b.canceled_by::text, ''), b.canceled_at, b.admin_verified_at, b.created_at, b.updated_at,
       l.resort_name, l.city, COALESCE(l.country, ''), l.check_in_date::text, l.check_out_date::text,
       l.unit_type, l.owner_price_cents
FROM bookings b
JOIN listings l ON l.id = b.listing_id
`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.OfferID, &b.ListingID, &b.TravelerID, &b.OwnerID, &b.Status,
		&b.ConfirmationNumber, &b.ProofFilePath, &b.CancelReason,
		&b.CanceledBy, &b.CanceledAt, &b.AdminVerifiedAt, &b.CreatedAt, &b.UpdatedAt,
		&b.Listing.ResortName, &b.Listing.City, &b.Listing.Country, &b.Listing.CheckInDate, &b.Listing.CheckOutDate,
		&b.Listing.UnitType, &b.Listing.OwnerPriceCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func getByID(ctx context.Context, q rowQuerier, id string) (*Booking, error) {
	return scanBooking(q.QueryRow(ctx, selectColumns+`WHERE b.id = $1`, id))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return getByID(ctx, r.db, id)
}

// GetByOfferID returns the booking created for an accepted offer.
func GetByOfferID(ctx context.Context, q rowQuerier, offerID string) (*Booking, error) {
	return scanBooking(q.QueryRow(ctx, selectColumns+`WHERE b.offer_id = $1`, offerID))
}

// Filter narrows booking lists. Empty fields match everything.
type Filter struct {
	OwnerID    string
	TravelerID string
	Statuses   []Status
	Limit      int
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Booking, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}
	q := selectColumns + `
WHERE ($1 = '' OR b.owner_id::text = $1)
  AND ($2 = '' OR b.traveler_id::text = $2)
  AND (cardinality($3::text[]) = 0 OR b.status = ANY($3::text[]))
ORDER BY b.created_at DESC
LIMIT $4
`
	rows, err := r.db.Query(ctx, q, f.OwnerID, f.TravelerID, statuses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// CountByStatus counts all of an owner's bookings per status.
func (r *Repository) CountByStatus(ctx context.Context, ownerID string) (map[Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings WHERE owner_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[Status]int{}
	for rows.Next() {
		var s Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}

// InsertForOffer creates the booking for an accepted offer. A booking that
// already exists for the offer is returned with created=false.
func InsertForOffer(ctx context.Context, tx pgx.Tx, offerID, listingID, travelerID, ownerID string, status Status) (*Booking, bool, error) {
	const q = `
INSERT INTO bookings (offer_id, listing_id, traveler_id, owner_id, status)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (offer_id) DO NOTHING
RETURNING id
`
	var id string
	err := tx.QueryRow(ctx, q, offerID, listingID, travelerID, ownerID, string(status)).Scan(&id)
	switch {
	case err == nil:
		b, err := getByID(ctx, tx, id)
		return b, true, err
	case errors.Is(err, pgx.ErrNoRows):
		b, err := GetByOfferID(ctx, tx, offerID)
		return b, false, err
	default:
		return nil, false, err
	}
}

// change carries the columns an event stamps besides status. Nil leaves a column untouched.
type change struct {
	ConfirmationNumber *string
	ProofFilePath      *string
	AdminVerifiedAt    *time.Time
	CancelReason       *string
	CanceledBy         *string
	CanceledAt         *time.Time
}

// transition is a conditional write: it only applies while the row still has
// status "from". A missing row is ErrNotFound, a moved row is ErrStatusConflict.
func transition(ctx context.Context, tx pgx.Tx, id string, from, to Status, c change) error {
	const q = `
UPDATE bookings
SET status = $3,
    confirmation_number = COALESCE($4, confirmation_number),
    proof_file_path = COALESCE($5, proof_file_path),
    admin_verified_at = COALESCE($6, admin_verified_at),
    cancel_reason = COALESCE($7, cancel_reason),
    canceled_by = COALESCE($8::uuid, canceled_by),
    canceled_at = COALESCE($9, canceled_at),
    updated_at = NOW()
WHERE id = $1 AND status = $2
RETURNING id
`
	var got string
	err := tx.QueryRow(ctx, q, id, string(from), string(to),
		c.ConfirmationNumber, c.ProofFilePath, c.AdminVerifiedAt,
		c.CancelReason, c.CanceledBy, c.CanceledAt,
	).Scan(&got)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}
