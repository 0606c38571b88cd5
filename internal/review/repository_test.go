package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/booking"
	"timeshare/internal/testdb"
)

var _ booking.ReviewStater = (*Repository)(nil)

func fullyPaidBooking(t *testing.T, pool *pgxpool.Pool) *booking.Booking {
	t.Helper()
	owner := testdb.Profile(t, pool, "owner")
	traveler := testdb.Profile(t, pool, "traveler")
	listingID := testdb.Listing{
		OwnerID:         owner,
		Resort:          "Review Resort",
		CheckIn:         time.Now().AddDate(0, -1, 0),
		OwnerPriceCents: 110000,
	}.Insert(t, pool)
	id := testdb.Booking(t, pool, listingID, owner, traveler, string(booking.StatusFullyPaid))

	b, err := booking.NewRepository(pool).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return b
}

func TestCreateUserReview_SecondIsAlreadyReviewed(t *testing.T) {
	pool := testdb.Open(t)
	ctx := context.Background()
	b := fullyPaidBooking(t, pool)
	repo := NewRepository(pool)

	got, err := repo.CreateUserReview(ctx, b, b.TravelerID, 5, "great host")
	if err != nil {
		t.Fatalf("first review: %v", err)
	}
	if got.ReviewedUserID != b.OwnerID {
		t.Fatalf("reviewed %s, want owner %s", got.ReviewedUserID, b.OwnerID)
	}

	exists, err := repo.HasUserReview(ctx, b.ID, b.TravelerID, b.OwnerID)
	if err != nil || !exists {
		t.Fatalf("HasUserReview = %v, %v", exists, err)
	}
	if _, err := repo.CreateUserReview(ctx, b, b.TravelerID, 3, "changed my mind"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	// The owner reviewing the traveler is a separate review.
	if _, err := repo.CreateUserReview(ctx, b, b.OwnerID, 4, ""); err != nil {
		t.Fatalf("owner review: %v", err)
	}

	state, err := repo.StateFor(ctx, b, b.TravelerID)
	if err != nil {
		t.Fatalf("StateFor: %v", err)
	}
	if state.CanReviewUser {
		t.Fatal("traveler should not be offered a second user review")
	}
	if !state.CanReviewResort {
		t.Fatal("traveler should still be offered a resort review")
	}
}

func TestCreateUserReview_ConcurrentStoresOne(t *testing.T) {
	pool := testdb.Open(t)
	ctx := context.Background()
	b := fullyPaidBooking(t, pool)
	repo := NewRepository(pool)

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateUserReview(ctx, b, b.TravelerID, 4, "")
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyReviewed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d reviews stored, want 1", ok)
	}
}

func TestCreateResortReview_SecondIsAlreadyReviewed(t *testing.T) {
	pool := testdb.Open(t)
	ctx := context.Background()
	b := fullyPaidBooking(t, pool)
	repo := NewRepository(pool)

	if _, err := repo.CreateResortReview(ctx, b, b.TravelerID, 5, "quiet pool"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := repo.CreateResortReview(ctx, b, b.TravelerID, 2, ""); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}
