package offer

import (
	"fmt"
	"strings"

	"timeshare/internal/apperr"
	"timeshare/internal/booking"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusWithdrawn Status = "withdrawn"
	StatusExpired   Status = "expired"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusAccepted, StatusDeclined, StatusWithdrawn, StatusExpired:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown offer status: %s", s)
	}
}

type Event string

const (
	EventAccept  Event = "accept"
	EventDecline Event = "decline"
)

var (
	ErrNotFound          = fmt.Errorf("offer %w", apperr.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("%w: offer is no longer open", apperr.ErrInvalidTransition)
	ErrStatusConflict    = fmt.Errorf("%w: offer status changed, reload and retry", apperr.ErrConflict)
	ErrListingInactive   = apperr.Invalid("LISTING_INACTIVE", "this listing is not accepting requests")
	ErrOwnListing        = fmt.Errorf("%w: you cannot request your own listing", apperr.ErrForbidden)
	ErrListingNotFound   = fmt.Errorf("listing %w", apperr.ErrNotFound)
)

// withdrawn and expired are set outside this service; nothing here moves an offer into them.
var transitions = map[Status]map[Event]Status{
	StatusNew: {
		EventAccept:  StatusAccepted,
		EventDecline: StatusDeclined,
	},
	StatusAccepted:  {},
	StatusDeclined:  {},
	StatusWithdrawn: {},
	StatusExpired:   {},
}

func Next(from Status, ev Event) (Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return "", ErrInvalidTransition
	}
	return to, nil
}

// ParseStatusCSV parses the owner offers "status" filter.
func ParseStatusCSV(csv string) ([]Status, error) {
	var out []Status
	for _, part := range splitCSV(csv) {
		s, err := ParseStatus(part)
		if err != nil {
			return nil, apperr.Invalid("VALIDATION_FAILED", err.Error())
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseBookingStatusCSV parses the owner offers "bookingStatus" filter.
func ParseBookingStatusCSV(csv string) ([]booking.Status, error) {
	var out []booking.Status
	for _, part := range splitCSV(csv) {
		s, err := booking.ParseStatus(part)
		if err != nil {
			return nil, apperr.Invalid("VALIDATION_FAILED", err.Error())
		}
		out = append(out, s)
	}
	return out, nil
}

func splitCSV(csv string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
