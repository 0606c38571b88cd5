package review

import (
	"errors"
	"testing"

	"timeshare/internal/booking"
)

func paid() *booking.Booking {
	return &booking.Booking{ID: "b1", TravelerID: "t1", OwnerID: "o1", Status: booking.StatusFullyPaid}
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{0, 6, -1} {
		if err := ValidateRating(r); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected invalid, got %v", r, err)
		}
	}
	for r := 1; r <= 5; r++ {
		if err := ValidateRating(r); err != nil {
			t.Fatalf("rating %d: unexpected error %v", r, err)
		}
	}
}

func TestCheckUserReview(t *testing.T) {
	if reviewed, err := CheckUserReview(paid(), "t1", false); err != nil || reviewed != "o1" {
		t.Fatalf("traveler->owner: %s %v", reviewed, err)
	}
	if reviewed, err := CheckUserReview(paid(), "o1", false); err != nil || reviewed != "t1" {
		t.Fatalf("owner->traveler: %s %v", reviewed, err)
	}
	if _, err := CheckUserReview(paid(), "t1", true); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed, got %v", err)
	}
	if _, err := CheckUserReview(paid(), "x", false); !errors.Is(err, ErrNotParty) {
		t.Fatalf("expected not party, got %v", err)
	}

	b := paid()
	b.Status = booking.StatusVerifiedAwaitingFinalPayment
	if _, err := CheckUserReview(b, "t1", false); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected not eligible before full payment, got %v", err)
	}
}

func TestCheckResortReview(t *testing.T) {
	if err := CheckResortReview(paid(), "t1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckResortReview(paid(), "o1", false); !errors.Is(err, ErrTravelerOnly) {
		t.Fatalf("expected traveler only, got %v", err)
	}
	if err := CheckResortReview(paid(), "t1", true); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed, got %v", err)
	}
	b := paid()
	b.Status = booking.StatusCanceled
	if err := CheckResortReview(b, "t1", false); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected not eligible, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	st := Evaluate(paid(), "t1", false, false)
	if !st.Open || !st.CanReviewUser || !st.CanReviewResort || st.ReviewedUserID != "o1" {
		t.Fatalf("unexpected traveler state: %+v", st)
	}
	st = Evaluate(paid(), "o1", true, false)
	if st.CanReviewUser || st.CanReviewResort {
		t.Fatalf("owner who already reviewed should have nothing left: %+v", st)
	}
	b := paid()
	b.Status = booking.StatusFirstPaymentPaid
	if st := Evaluate(b, "t1", false, false); st.Open || st.CanReviewUser {
		t.Fatalf("reviews should be closed: %+v", st)
	}
}
