package dashboard

import (
	"testing"

	"timeshare/internal/booking"
	"timeshare/internal/listing"
)

func TestSummarize(t *testing.T) {
	listings := []listing.Listing{
		{ID: "l1", IsActive: true, OwnerPriceCents: 100000},
		{ID: "l2", IsActive: false, OwnerPriceCents: 50000},
		{ID: "l3", IsActive: true, OwnerPriceCents: 20000},
	}
	offers := map[string]int{"l1": 2, "l3": 1}
	counts := map[booking.Status]int{
		booking.StatusFirstPaymentPaid:               180,
		booking.StatusOwnerBookedPendingVerification: 45,
		booking.StatusAwaitingFirstPayment:           230,
		booking.StatusFullyPaid:                      900,
	}
	s, rows := Summarize(listings, offers, counts, []int{5, 4, 5, 3, 3, 1, 1})

	if s.ActiveListings != 2 || s.NewOffers != 3 {
		t.Fatalf("unexpected listing counts: %+v", s)
	}
	if s.AwaitingOwnerAction != 225 || s.AwaitingTravelerPayment != 230 {
		t.Fatalf("unexpected booking counts: %+v", s)
	}
	if s.RecentRating == nil || *s.RecentRating != 4 || s.RecentRatingCount != 5 {
		t.Fatalf("expected average of newest five ratings = 4, got %+v", s)
	}
	if rows[0].NewOffers != 2 || rows[0].Payout.PlatformFeeCents != 5000 || rows[0].Payout.OwnerNetCents != 95000 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestSummarize_NoReviews(t *testing.T) {
	s, rows := Summarize(nil, nil, nil, nil)
	if s.RecentRating != nil || len(rows) != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}
