package events

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Event struct {
	ID         string `json:"id"`
	BookingID  string `json:"bookingId"`
	EventType  string `json:"eventType"`
	FromStatus string `json:"fromStatus,omitempty"`
	ToStatus   string `json:"toStatus"`
	ActorID    string `json:"actorId,omitempty"`
	ActorRole  string `json:"actorRole"`
	OccurredAt string `json:"occurredAt"`
	Data       any    `json:"data,omitempty"`
}

type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func ListByBooking(ctx context.Context, db Querier, bookingID string) ([]Event, error) {
	const q = `
SELECT id, booking_id, event_type, COALESCE(from_status, ''), to_status,
       COALESCE(actor_id::text, ''), actor_role, occurred_at::text, COALESCE(data, '{}'::jsonb)
FROM booking_events
WHERE booking_id = $1
ORDER BY occurred_at ASC, created_at ASC
`
	rows, err := db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.ActorRole, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
