package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
)

// Entry is one row to append to a booking's timeline.
type Entry struct {
	BookingID  string
	EventType  string
	FromStatus string
	ToStatus   string
	ActorID    string
	ActorRole  string
	OccurredAt time.Time
	Data       any
}

// Insert appends to booking_events inside the caller's transaction so the
// timeline never disagrees with the booking row.
func Insert(ctx context.Context, tx pgx.Tx, e Entry) error {
	var data *string
	if e.Data != nil {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return err
		}
		str := string(b)
		data = &str
	}
	var from, actor *string
	if e.FromStatus != "" {
		from = &e.FromStatus
	}
	if e.ActorID != "" {
		actor = &e.ActorID
	}
	const q = `
INSERT INTO booking_events (booking_id, event_type, from_status, to_status, actor_id, actor_role, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, $6, $7, CAST($8 AS jsonb))
`
	_, err := tx.Exec(ctx, q, e.BookingID, e.EventType, from, e.ToStatus, actor, e.ActorRole, e.OccurredAt, data)
	return err
}
