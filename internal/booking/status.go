package booking

import (
	"fmt"

	"timeshare/internal/apperr"
)

type Status string

const (
	StatusRequested                      Status = "requested"
	StatusAwaitingFirstPayment           Status = "awaiting_first_payment"
	StatusFirstPaymentPaid               Status = "first_payment_paid"
	StatusOwnerBookedPendingVerification Status = "owner_booked_pending_verification"
	StatusVerifiedAwaitingFinalPayment   Status = "verified_awaiting_final_payment"
	StatusFullyPaid                      Status = "fully_paid"
	StatusCanceled                       Status = "canceled"
	StatusRefunded                       Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRequested, StatusAwaitingFirstPayment, StatusFirstPaymentPaid,
		StatusOwnerBookedPendingVerification, StatusVerifiedAwaitingFinalPayment,
		StatusFullyPaid, StatusCanceled, StatusRefunded:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// Terminal statuses accept no further events.
func (s Status) Terminal() bool {
	return s == StatusFullyPaid || s == StatusCanceled || s == StatusRefunded
}

type Event string

const (
	EventPayFirst    Event = "pay_first"
	EventSubmitProof Event = "submit_proof"
	EventVerify      Event = "verify"
	EventPayFinal    Event = "pay_final"
	EventCancel      Event = "cancel"
	EventRefund      Event = "refund"
)

type Actor string

const (
	ActorTraveler Actor = "traveler"
	ActorOwner    Actor = "owner"
	ActorAdmin    Actor = "admin"
)

var (
	ErrNotFound          = fmt.Errorf("booking %w", apperr.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("%w: action not available for this booking status", apperr.ErrInvalidTransition)
	ErrStatusConflict    = fmt.Errorf("%w: booking status changed, reload and retry", apperr.ErrConflict)
	ErrForbidden         = fmt.Errorf("%w: not allowed to act on this booking", apperr.ErrForbidden)
)

// transitions is the single source of truth for the booking lifecycle.
// Every mutation path goes through Next; no other code compares statuses to
// decide whether a write is allowed.
var transitions = map[Status]map[Event]Status{
	StatusRequested: {
		EventPayFirst: StatusFirstPaymentPaid,
		EventCancel:   StatusCanceled,
		EventRefund:   StatusRefunded,
	},
	StatusAwaitingFirstPayment: {
		EventPayFirst: StatusFirstPaymentPaid,
		EventCancel:   StatusCanceled,
		EventRefund:   StatusRefunded,
	},
	StatusFirstPaymentPaid: {
		EventSubmitProof: StatusOwnerBookedPendingVerification,
		EventVerify:      StatusVerifiedAwaitingFinalPayment,
		EventCancel:      StatusCanceled,
		EventRefund:      StatusRefunded,
	},
	StatusOwnerBookedPendingVerification: {
		EventSubmitProof: StatusOwnerBookedPendingVerification,
		EventVerify:      StatusVerifiedAwaitingFinalPayment,
		EventCancel:      StatusCanceled,
		EventRefund:      StatusRefunded,
	},
	StatusVerifiedAwaitingFinalPayment: {
		EventPayFinal: StatusFullyPaid,
		EventCancel:   StatusCanceled,
		EventRefund:   StatusRefunded,
	},
	StatusFullyPaid: {},
	StatusCanceled:  {},
	StatusRefunded:  {},
}

var eventActors = map[Event][]Actor{
	EventPayFirst:    {ActorTraveler},
	EventPayFinal:    {ActorTraveler},
	EventSubmitProof: {ActorOwner},
	EventCancel:      {ActorTraveler, ActorOwner},
	EventVerify:      {ActorAdmin},
	EventRefund:      {ActorAdmin},
}

// Next returns the status reached by firing ev from "from".
func Next(from Status, ev Event) (Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return "", ErrInvalidTransition
	}
	return to, nil
}

func CanFire(from Status, ev Event) bool {
	_, err := Next(from, ev)
	return err == nil
}

// Allowed reports whether actor may fire ev at all.
func Allowed(ev Event, actor Actor) bool {
	for _, a := range eventActors[ev] {
		if a == actor {
			return true
		}
	}
	return false
}

// Availability is the set of actions the UI offers for a status.
type Availability struct {
	CanPayFirst    bool `json:"canPayFirst"`
	CanPayFinal    bool `json:"canPayFinal"`
	CanSubmitProof bool `json:"canSubmitProof"`
	CanCancel      bool `json:"canCancel"`
	CanVerify      bool `json:"canVerify"`
	CanRefund      bool `json:"canRefund"`
}

func AvailabilityFor(s Status) Availability {
	return Availability{
		CanPayFirst:    CanFire(s, EventPayFirst),
		CanPayFinal:    CanFire(s, EventPayFinal),
		CanSubmitProof: CanFire(s, EventSubmitProof),
		CanCancel:      CanFire(s, EventCancel),
		CanVerify:      CanFire(s, EventVerify),
		CanRefund:      CanFire(s, EventRefund),
	}
}

// OwnerUpdateLock explains why the owner cannot submit booking proof right now.
// locked is false when the proof form is open.
func OwnerUpdateLock(s Status) (locked bool, reason string) {
	if CanFire(s, EventSubmitProof) {
		return false, ""
	}
	switch s {
	case StatusRequested, StatusAwaitingFirstPayment:
		return true, "Waiting for the traveler's first payment before you book the stay."
	case StatusVerifiedAwaitingFinalPayment:
		return true, "Booking verified. Waiting for the traveler's final payment."
	case StatusFullyPaid:
		return true, "Booking complete. No further updates needed."
	case StatusCanceled:
		return true, "This booking was canceled."
	case StatusRefunded:
		return true, "This booking was refunded."
	default:
		return true, "Booking updates are not available right now."
	}
}

// Step is one entry of the traveler-facing progress tracker.
type Step struct {
	Status  Status `json:"status"`
	Label   string `json:"label"`
	Done    bool   `json:"done"`
	Current bool   `json:"current"`
}

var stepOrder = []struct {
	status Status
	label  string
}{
	{StatusRequested, "Requested"},
	{StatusAwaitingFirstPayment, "Awaiting first payment"},
	{StatusFirstPaymentPaid, "First payment received"},
	{StatusOwnerBookedPendingVerification, "Owner booked, pending verification"},
	{StatusVerifiedAwaitingFinalPayment, "Verified, awaiting final payment"},
	{StatusFullyPaid, "Fully paid"},
}

// Steps renders the progress tracker. Canceled and refunded bookings show no
// current step; everything before the terminal event stays as it was.
func Steps(s Status) []Step {
	idx := -1
	for i, st := range stepOrder {
		if st.status == s {
			idx = i
			break
		}
	}
	out := make([]Step, len(stepOrder))
	for i, st := range stepOrder {
		out[i] = Step{
			Status:  st.status,
			Label:   st.label,
			Done:    idx >= 0 && (i < idx || (i == idx && s == StatusFullyPaid)),
			Current: i == idx && s != StatusFullyPaid,
		}
	}
	return out
}
