package offer

import (
	"errors"
	"testing"

	"timeshare/internal/apperr"
	"timeshare/internal/booking"
)

func TestNext(t *testing.T) {
	if to, err := Next(StatusNew, EventAccept); err != nil || to != StatusAccepted {
		t.Fatalf("accept: %s %v", to, err)
	}
	if to, err := Next(StatusNew, EventDecline); err != nil || to != StatusDeclined {
		t.Fatalf("decline: %s %v", to, err)
	}
	for _, s := range []Status{StatusAccepted, StatusDeclined, StatusWithdrawn, StatusExpired} {
		for _, ev := range []Event{EventAccept, EventDecline} {
			if _, err := Next(s, ev); !errors.Is(err, apperr.ErrInvalidTransition) {
				t.Fatalf("%s from %s: expected invalid transition, got %v", ev, s, err)
			}
		}
	}
}

func TestNothingTransitionsIntoWithdrawnOrExpired(t *testing.T) {
	for from, evs := range transitions {
		for ev, to := range evs {
			if to == StatusWithdrawn || to == StatusExpired {
				t.Fatalf("%s --%s--> %s should not exist", from, ev, to)
			}
		}
	}
}

func TestParseStatusCSV(t *testing.T) {
	got, err := ParseStatusCSV(" new, accepted ,new,,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != StatusNew || got[1] != StatusAccepted {
		t.Fatalf("unexpected statuses: %v", got)
	}

	if got, err := ParseStatusCSV(""); err != nil || len(got) != 0 {
		t.Fatalf("empty filter: %v %v", got, err)
	}

	_, err = ParseStatusCSV("new,pending")
	var verr apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseBookingStatusCSV(t *testing.T) {
	got, err := ParseBookingStatusCSV("first_payment_paid,owner_booked_pending_verification")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != booking.StatusFirstPaymentPaid {
		t.Fatalf("unexpected statuses: %v", got)
	}
	if _, err := ParseBookingStatusCSV("paid"); err == nil {
		t.Fatalf("expected error for unknown booking status")
	}
}

func TestErrorKinds(t *testing.T) {
	if !errors.Is(ErrStatusConflict, apperr.ErrConflict) {
		t.Fatalf("offer conflict should be retryable")
	}
	if !errors.Is(ErrOwnListing, apperr.ErrForbidden) {
		t.Fatalf("own listing should be forbidden")
	}
	var verr apperr.ValidationError
	if !errors.As(ErrListingInactive, &verr) || verr.Code != "LISTING_INACTIVE" {
		t.Fatalf("inactive listing should be a validation error")
	}
}
