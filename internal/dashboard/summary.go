package dashboard

import (
	"timeshare/internal/booking"
	"timeshare/internal/listing"
	"timeshare/internal/payout"
)

// RecentReviewWindow is how many of the newest reviews feed the dashboard rating.
const RecentReviewWindow = 5

type Summary struct {
	ActiveListings          int      `json:"activeListings"`
	NewOffers               int      `json:"newOffers"`
	AwaitingOwnerAction     int      `json:"awaitingOwnerAction"`
	AwaitingTravelerPayment int      `json:"awaitingTravelerPayment"`
	RecentRating            *float64 `json:"recentRating,omitempty"`
	RecentRatingCount       int      `json:"recentRatingCount"`
}

type ListingRow struct {
	listing.Listing
	NewOffers int              `json:"newOffers"`
	Payout    payout.Breakdown `json:"payout"`
}

// Summarize builds the owner dashboard from already loaded rows and per-status booking counts.
func Summarize(listings []listing.Listing, newOffers map[string]int, bookingCounts map[booking.Status]int, recentRatings []int) (Summary, []ListingRow) {
	var s Summary
	rows := make([]ListingRow, 0, len(listings))
	for _, l := range listings {
		if l.IsActive {
			s.ActiveListings++
		}
		n := newOffers[l.ID]
		s.NewOffers += n
		rows = append(rows, ListingRow{
			Listing:   l,
			NewOffers: n,
			Payout:    payout.CalculateBreakdown(l.OwnerPriceCents),
		})
	}

	s.AwaitingOwnerAction = bookingCounts[booking.StatusFirstPaymentPaid] +
		bookingCounts[booking.StatusOwnerBookedPendingVerification]
	s.AwaitingTravelerPayment = bookingCounts[booking.StatusAwaitingFirstPayment]

	if len(recentRatings) > RecentReviewWindow {
		recentRatings = recentRatings[:RecentReviewWindow]
	}
	if len(recentRatings) > 0 {
		sum := 0
		for _, r := range recentRatings {
			sum += r
		}
		avg := float64(sum) / float64(len(recentRatings))
		s.RecentRating = &avg
		s.RecentRatingCount = len(recentRatings)
	}
	return s, rows
}
