package review

import (
	"fmt"

	"timeshare/internal/apperr"
	"timeshare/internal/booking"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrNotEligible     = fmt.Errorf("%w: reviews open once the booking is fully paid", apperr.ErrInvalidTransition)
	ErrNotParty        = fmt.Errorf("%w: only the traveler and owner of this booking can review it", apperr.ErrForbidden)
	ErrTravelerOnly    = fmt.Errorf("%w: only the traveler can review the resort", apperr.ErrForbidden)
	ErrAlreadyReviewed = fmt.Errorf("%w: you already left this review", apperr.ErrAlreadyExists)
	ErrInvalidRating   = apperr.Invalid("INVALID_RATING", "rating must be between 1 and 5")
)

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// Evaluate decides review eligibility from the booking and the viewer's existing reviews.
func Evaluate(b *booking.Booking, viewerID string, hasUserReview, hasResortReview bool) booking.ReviewState {
	st := booking.ReviewState{
		Open:             b.Status == booking.StatusFullyPaid,
		ReviewedUserID:   b.CounterpartyOf(viewerID),
		LeftUserReview:   hasUserReview,
		LeftResortReview: hasResortReview,
	}
	if !st.Open || st.ReviewedUserID == "" {
		return st
	}
	st.CanReviewUser = !hasUserReview
	st.CanReviewResort = b.PartyRole(viewerID) == booking.ActorTraveler && !hasResortReview
	return st
}

// CheckUserReview returns the reviewed party's id if reviewerID may review the counterparty now.
func CheckUserReview(b *booking.Booking, reviewerID string, alreadyReviewed bool) (string, error) {
	reviewed := b.CounterpartyOf(reviewerID)
	if reviewed == "" {
		return "", ErrNotParty
	}
	if b.Status != booking.StatusFullyPaid {
		return "", ErrNotEligible
	}
	if alreadyReviewed {
		return "", ErrAlreadyReviewed
	}
	return reviewed, nil
}

func CheckResortReview(b *booking.Booking, reviewerID string, alreadyReviewed bool) error {
	switch b.PartyRole(reviewerID) {
	case booking.ActorTraveler:
	case booking.ActorOwner:
		return ErrTravelerOnly
	default:
		return ErrNotParty
	}
	if b.Status != booking.StatusFullyPaid {
		return ErrNotEligible
	}
	if alreadyReviewed {
		return ErrAlreadyReviewed
	}
	return nil
}
