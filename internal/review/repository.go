package review

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/booking"
	"timeshare/pkg/db"
)

type UserReview struct {
	ID             string    `json:"id"`
	BookingID      string    `json:"bookingId"`
	ReviewerID     string    `json:"reviewerId"`
	ReviewedUserID string    `json:"reviewedUserId"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ResortReview struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"bookingId"`
	ListingID  string    `json:"listingId"`
	ReviewerID string    `json:"reviewerId"`
	ResortName string    `json:"resortName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HasUserReview(ctx context.Context, bookingID, reviewerID, reviewedID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM user_reviews
  WHERE booking_id = $1 AND reviewer_id = $2 AND reviewed_user_id = $3
)`
	var ok bool
	err := r.db.QueryRow(ctx, q, bookingID, reviewerID, reviewedID).Scan(&ok)
	return ok, err
}

func (r *Repository) HasResortReview(ctx context.Context, bookingID, reviewerID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM resort_reviews WHERE booking_id = $1 AND reviewer_id = $2)`
	var ok bool
	err := r.db.QueryRow(ctx, q, bookingID, reviewerID).Scan(&ok)
	return ok, err
}

// StateFor reports review eligibility for the booking detail view.
func (r *Repository) StateFor(ctx context.Context, b *booking.Booking, viewerID string) (*booking.ReviewState, error) {
	var hasUser, hasResort bool
	if other := b.CounterpartyOf(viewerID); other != "" {
		var err error
		if hasUser, err = r.HasUserReview(ctx, b.ID, viewerID, other); err != nil {
			return nil, err
		}
		if hasResort, err = r.HasResortReview(ctx, b.ID, viewerID); err != nil {
			return nil, err
		}
	}
	st := Evaluate(b, viewerID, hasUser, hasResort)
	return &st, nil
}

// CreateUserReview pre-checks for an existing review; the unique index catches
// whatever slips past the check.
func (r *Repository) CreateUserReview(ctx context.Context, b *booking.Booking, reviewerID string, rating int, comment string) (*UserReview, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	reviewed := b.CounterpartyOf(reviewerID)
	var exists bool
	if reviewed != "" {
		var err error
		if exists, err = r.HasUserReview(ctx, b.ID, reviewerID, reviewed); err != nil {
			return nil, err
		}
	}
	reviewed, err := CheckUserReview(b, reviewerID, exists)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO user_reviews (booking_id, reviewer_id, reviewed_user_id, rating, comment)
VALUES ($1, $2, $3, $4, NULLIF($5, ''))
RETURNING id, booking_id, reviewer_id, reviewed_user_id, rating, COALESCE(comment, ''), created_at
`
	var out UserReview
	if err := r.db.QueryRow(ctx, q, b.ID, reviewerID, reviewed, rating, strings.TrimSpace(comment)).Scan(
		&out.ID, &out.BookingID, &out.ReviewerID, &out.ReviewedUserID, &out.Rating, &out.Comment, &out.CreatedAt,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return &out, nil
}

func (r *Repository) CreateResortReview(ctx context.Context, b *booking.Booking, reviewerID string, rating int, comment string) (*ResortReview, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	var exists bool
	if b.PartyRole(reviewerID) == booking.ActorTraveler {
		var err error
		if exists, err = r.HasResortReview(ctx, b.ID, reviewerID); err != nil {
			return nil, err
		}
	}
	if err := CheckResortReview(b, reviewerID, exists); err != nil {
		return nil, err
	}

	const q = `
INSERT INTO resort_reviews (booking_id, listing_id, reviewer_id, resort_name, rating, comment)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING id, booking_id, listing_id, reviewer_id, resort_name, rating, COALESCE(comment, ''), created_at
`
	var out ResortReview
	if err := r.db.QueryRow(ctx, q, b.ID, b.ListingID, reviewerID, b.Listing.ResortName, rating, strings.TrimSpace(comment)).Scan(
		&out.ID, &out.BookingID, &out.ListingID, &out.ReviewerID, &out.ResortName, &out.Rating, &out.Comment, &out.CreatedAt,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return &out, nil
}

// RecentRatingsFor returns the newest ratings left about a user, newest first.
func (r *Repository) RecentRatingsFor(ctx context.Context, userID string, limit int) ([]int, error) {
	const q = `
SELECT rating
FROM user_reviews
WHERE reviewed_user_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
