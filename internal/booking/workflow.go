package booking

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/adminaction"
	"timeshare/internal/apperr"
	"timeshare/internal/events"
	"timeshare/pkg/db"
)

const MinCancelReasonLength = 5

// Command is one attempt to move a booking through its lifecycle.
type Command struct {
	BookingID string
	Event     Event
	ActorID   string
	IsAdmin   bool

	Reason             string // cancel
	ConfirmationNumber string // submit_proof
	ProofFilePath      string // submit_proof
}

// Validate checks event-specific input before any read or write.
func (c Command) Validate() error {
	switch c.Event {
	case EventCancel:
		if utf8.RuneCountInString(strings.TrimSpace(c.Reason)) < MinCancelReasonLength {
			return apperr.Invalid("REASON_TOO_SHORT", "please give a cancellation reason of at least 5 characters")
		}
	case EventSubmitProof:
		if strings.TrimSpace(c.ConfirmationNumber) == "" {
			return apperr.Invalid("CONFIRMATION_REQUIRED", "confirmation number is required")
		}
		if strings.TrimSpace(c.ProofFilePath) == "" {
			return apperr.Invalid("PROOF_REQUIRED", "proof of booking is required")
		}
	case EventPayFirst, EventPayFinal, EventVerify, EventRefund:
	default:
		return apperr.Invalid("UNKNOWN_ACTION", "unknown booking action")
	}
	return nil
}

// ResolveActor decides which side of the booking the caller acts as for ev.
// Admins act as admin only for admin events; otherwise they need to be a party.
func ResolveActor(b *Booking, ev Event, actorID string, isAdmin bool) (Actor, error) {
	if isAdmin && Allowed(ev, ActorAdmin) {
		return ActorAdmin, nil
	}
	role := b.PartyRole(actorID)
	if role == "" || !Allowed(ev, role) {
		return "", ErrForbidden
	}
	return role, nil
}

type Workflow struct {
	DB  *pgxpool.Pool
	Now func() time.Time
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now().UTC()
	}
	return time.Now().UTC()
}

// Apply runs one lifecycle event. The status write, the timeline entry and,
// for admin events, the admin_actions row commit together or not at all.
func (w *Workflow) Apply(ctx context.Context, cmd Command) (*Booking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := w.now()

	var out *Booking
	err := db.WithTx(ctx, w.DB, func(tx pgx.Tx) error {
		b, err := getByID(ctx, tx, cmd.BookingID)
		if err != nil {
			return err
		}
		actor, err := ResolveActor(b, cmd.Event, cmd.ActorID, cmd.IsAdmin)
		if err != nil {
			return err
		}
		next, err := Next(b.Status, cmd.Event)
		if err != nil {
			return err
		}

		c, data := changeFor(cmd, actor, now)
		if err := transition(ctx, tx, b.ID, b.Status, next, c); err != nil {
			return err
		}

		if err := events.Insert(ctx, tx, events.Entry{
			BookingID:  b.ID,
			EventType:  string(cmd.Event),
			FromStatus: string(b.Status),
			ToStatus:   string(next),
			ActorID:    cmd.ActorID,
			ActorRole:  string(actor),
			OccurredAt: now,
			Data:       data,
		}); err != nil {
			return err
		}

		if actor == ActorAdmin {
			action := adminaction.ActionVerifyBooking
			if cmd.Event == EventRefund {
				action = adminaction.ActionRefundBooking
			}
			meta := map[string]any{"from": b.Status, "to": next}
			if err := adminaction.Insert(ctx, tx, action, adminaction.TargetBooking, b.ID, cmd.ActorID, "", meta); err != nil {
				return err
			}
		}

		out, err = getByID(ctx, tx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func changeFor(cmd Command, actor Actor, now time.Time) (change, map[string]any) {
	var c change
	switch cmd.Event {
	case EventSubmitProof:
		conf := strings.TrimSpace(cmd.ConfirmationNumber)
		proof := strings.TrimSpace(cmd.ProofFilePath)
		c.ConfirmationNumber = &conf
		c.ProofFilePath = &proof
		return c, map[string]any{"confirmationNumber": conf}
	case EventVerify:
		c.AdminVerifiedAt = &now
	case EventCancel:
		reason := strings.TrimSpace(cmd.Reason)
		by := cmd.ActorID
		c.CancelReason = &reason
		c.CanceledBy = &by
		c.CanceledAt = &now
		return c, map[string]any{"reason": reason, "canceledBy": actor}
	}
	return c, nil
}
