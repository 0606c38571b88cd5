package offer

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/booking"
	"timeshare/internal/events"
	"timeshare/pkg/db"
)

type Offer struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listingId"`
	TravelerID   string    `json:"travelerId"`
	OwnerID      string    `json:"ownerId"`
	GuestCount   int       `json:"guestCount"`
	Note         string    `json:"note,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	TravelerName string    `json:"travelerName,omitempty"`
	OwnerName    string    `json:"ownerName,omitempty"`

	Listing booking.ListingSummary `json:"listing"`

	BookingID     string         `json:"bookingId,omitempty"`
	BookingStatus booking.Status `json:"bookingStatus,omitempty"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
SELECT o.id, o.listing_id, o.traveler_id, l.owner_id, o.guest_count, COALESCE(o.note, ''), o.status, o.created_at,
       COALESCE(pt.full_name, ''), COALESCE(po.full_name, ''),
       l.resort_name, l.city, COALESCE(l.country, ''), l.check_in_date::text, l.check_out_date::text,
       l.unit_type, l.owner_price_cents,
       COALESCE(b.id::text, ''), COALESCE(b.status, '')
FROM offers o
JOIN listings l ON l.id = o.listing_id
LEFT JOIN bookings b ON b.offer_id = o.id
LEFT JOIN profiles pt ON pt.id = o.traveler_id
LEFT JOIN profiles po ON po.id = l.owner_id
`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanOffer(row pgx.Row) (*Offer, error) {
	var o Offer
	err := row.Scan(
		&o.ID, &o.ListingID, &o.TravelerID, &o.OwnerID, &o.GuestCount, &o.Note, &o.Status, &o.CreatedAt,
		&o.TravelerName, &o.OwnerName,
		&o.Listing.ResortName, &o.Listing.City, &o.Listing.Country, &o.Listing.CheckInDate, &o.Listing.CheckOutDate,
		&o.Listing.UnitType, &o.Listing.OwnerPriceCents,
		&o.BookingID, &o.BookingStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func getByID(ctx context.Context, q rowQuerier, id string) (*Offer, error) {
	return scanOffer(q.QueryRow(ctx, selectColumns+`WHERE o.id = $1`, id))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Offer, error) {
	return getByID(ctx, r.db, id)
}

type Filter struct {
	OwnerID         string
	TravelerID      string
	Statuses        []Status
	BookingStatuses []booking.Status
	Limit           int
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Offer, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}
	bookingStatuses := make([]string, 0, len(f.BookingStatuses))
	for _, s := range f.BookingStatuses {
		bookingStatuses = append(bookingStatuses, string(s))
	}
	q := selectColumns + `
WHERE ($1 = '' OR l.owner_id::text = $1)
  AND ($2 = '' OR o.traveler_id::text = $2)
  AND (cardinality($3::text[]) = 0 OR o.status = ANY($3::text[]))
  AND (cardinality($4::text[]) = 0 OR b.status = ANY($4::text[]))
ORDER BY o.created_at DESC
LIMIT $5
`
	rows, err := r.db.Query(ctx, q, f.OwnerID, f.TravelerID, statuses, bookingStatuses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// CountNewByListing returns the number of open offers per listing for one owner.
func (r *Repository) CountNewByListing(ctx context.Context, ownerID string) (map[string]int, error) {
	const q = `
SELECT o.listing_id, COUNT(*)
FROM offers o
JOIN listings l ON l.id = o.listing_id
WHERE l.owner_id = $1 AND o.status = 'new'
GROUP BY o.listing_id
`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

type RequestInput struct {
	ListingID  string
	TravelerID string
	GuestCount int
	Note       string
}

// Request records a traveler's request on an active listing.
func (r *Repository) Request(ctx context.Context, in RequestInput) (*Offer, error) {
	var out *Offer
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var ownerID string
		var active bool
		err := tx.QueryRow(ctx, `SELECT owner_id, is_active FROM listings WHERE id = $1`, in.ListingID).Scan(&ownerID, &active)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrListingNotFound
		}
		if err != nil {
			return err
		}
		if ownerID == in.TravelerID {
			return ErrOwnListing
		}
		if !active {
			return ErrListingInactive
		}

		var note *string
		if in.Note != "" {
			note = &in.Note
		}
		const q = `
INSERT INTO offers (listing_id, traveler_id, guest_count, note, status)
VALUES ($1, $2, $3, $4, 'new')
RETURNING id
`
		var id string
		if err := tx.QueryRow(ctx, q, in.ListingID, in.TravelerID, in.GuestCount, note).Scan(&id); err != nil {
			return err
		}
		out, err = getByID(ctx, tx, id)
		return err
	})
	return out, err
}

// Accept moves an open offer to accepted and creates its booking in one
// transaction. Accepting an already accepted offer returns the existing booking.
func (r *Repository) Accept(ctx context.Context, ownerID, offerID string, now time.Time) (*Offer, *booking.Booking, error) {
	var (
		o *Offer
		b *booking.Booking
	)
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		o, err = getByID(ctx, tx, offerID)
		if err != nil {
			return err
		}
		if o.OwnerID != ownerID {
			return ErrNotFound
		}

		if o.Status != StatusAccepted {
			next, err := Next(o.Status, EventAccept)
			if err != nil {
				return err
			}
			if err := transition(ctx, tx, o.ID, o.Status, next); err != nil {
				return err
			}
		}

		var created bool
		b, created, err = booking.InsertForOffer(ctx, tx, o.ID, o.ListingID, o.TravelerID, o.OwnerID, booking.StatusAwaitingFirstPayment)
		if err != nil {
			return err
		}
		if created {
			if err := events.Insert(ctx, tx, events.Entry{
				BookingID:  b.ID,
				EventType:  "created",
				ToStatus:   string(b.Status),
				ActorID:    ownerID,
				ActorRole:  string(booking.ActorOwner),
				OccurredAt: now,
				Data:       map[string]any{"offerId": o.ID},
			}); err != nil {
				return err
			}
		}

		o, err = getByID(ctx, tx, o.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return o, b, nil
}

func (r *Repository) Decline(ctx context.Context, ownerID, offerID string) (*Offer, error) {
	var o *Offer
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		o, err = getByID(ctx, tx, offerID)
		if err != nil {
			return err
		}
		if o.OwnerID != ownerID {
			return ErrNotFound
		}
		next, err := Next(o.Status, EventDecline)
		if err != nil {
			return err
		}
		if err := transition(ctx, tx, o.ID, o.Status, next); err != nil {
			return err
		}
		o, err = getByID(ctx, tx, o.ID)
		return err
	})
	return o, err
}

func transition(ctx context.Context, tx pgx.Tx, id string, from, to Status) error {
	const q = `
UPDATE offers
SET status = $3, updated_at = NOW()
WHERE id = $1 AND status = $2
`
	tag, err := tx.Exec(ctx, q, id, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}
