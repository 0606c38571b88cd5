// Package testdb opens a migrated Postgres pool for repository tests and seeds
// the rows those tests build on. Tests skip unless TEST_DATABASE_URL is set.
package testdb

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/pkg/config"
	"timeshare/pkg/db"
)

const envURL = "TEST_DATABASE_URL"

// Open returns a pool on TEST_DATABASE_URL with every migration applied.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(envURL)
	if url == "" {
		t.Skipf("%s not set", envURL)
	}
	cfg := config.Config{DatabaseURL: url, DirectURL: url}

	if err := db.Migrate("file://"+migrationsDir(t), cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("locate testdb source")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Profile inserts an active profile with the given role and returns its id.
func Profile(t *testing.T, pool *pgxpool.Pool, role string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, full_name, role) VALUES ($1, $2, $3)`,
		id, "Test "+role, role)
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return id
}

// Listing describes an active listing to seed. Give each test its own Resort
// so a search on it only matches rows that test created.
type Listing struct {
	OwnerID          string
	Resort           string
	CheckIn          time.Time
	Nights           int
	OwnerPriceCents  int64
	NormalPriceCents int64
}

// Insert writes the listing and returns its id.
func (l Listing) Insert(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	nights := l.Nights
	if nights == 0 {
		nights = 7
	}
	normal := l.NormalPriceCents
	if normal == 0 {
		normal = l.OwnerPriceCents * 2
	}
	const q = `
INSERT INTO listings (owner_id, ownership_type, resort_name, city, check_in_date, check_out_date,
                      unit_type, owner_price_cents, normal_price_cents)
VALUES ($1, 'fixed_week', $2, 'Orlando', $3::date, $4::date, '2BR', $5, $6)
RETURNING id
`
	var id string
	err := pool.QueryRow(context.Background(), q,
		l.OwnerID, l.Resort,
		l.CheckIn.Format(time.DateOnly), l.CheckIn.AddDate(0, 0, nights).Format(time.DateOnly),
		l.OwnerPriceCents, normal,
	).Scan(&id)
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return id
}

// Booking inserts an offer and its booking in status and returns the booking id.
func Booking(t *testing.T, pool *pgxpool.Pool, listingID, ownerID, travelerID, status string) string {
	t.Helper()
	ctx := context.Background()
	var offerID string
	err := pool.QueryRow(ctx,
		`INSERT INTO offers (listing_id, traveler_id, guest_count, status) VALUES ($1, $2, 2, 'accepted') RETURNING id`,
		listingID, travelerID,
	).Scan(&offerID)
	if err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	var bookingID string
	err = pool.QueryRow(ctx,
		`INSERT INTO bookings (offer_id, listing_id, traveler_id, owner_id, status) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		offerID, listingID, travelerID, ownerID, status,
	).Scan(&bookingID)
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return bookingID
}

// Rate records a user review of reviewedID on a fresh fully paid booking.
func Rate(t *testing.T, pool *pgxpool.Pool, listingID, reviewedID, reviewerID string, rating int) {
	t.Helper()
	bookingID := Booking(t, pool, listingID, reviewedID, reviewerID, "fully_paid")
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_reviews (booking_id, reviewer_id, reviewed_user_id, rating) VALUES ($1, $2, $3, $4)`,
		bookingID, reviewerID, reviewedID, rating)
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}
}
