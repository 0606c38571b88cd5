package adminaction

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Record struct {
	ID         string     `json:"id"`
	ActionType ActionType `json:"actionType"`
	TargetType TargetType `json:"targetType"`
	TargetID   string     `json:"targetId"`
	ActorID    string     `json:"actorId"`
	Reason     string     `json:"reason,omitempty"`
	Metadata   any        `json:"metadata,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

func Insert(ctx context.Context, tx pgx.Tx, action ActionType, target TargetType, targetID, actorID, reason string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}
	const q = `
INSERT INTO admin_actions (action_type, target_type, target_id, actor_id, reason, metadata)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := tx.Exec(ctx, q, string(action), string(target), targetID, actorID, reasonArg, s)
	return err
}

// ListRecent returns the newest actions, optionally narrowed to one target.
func ListRecent(ctx context.Context, db *pgxpool.Pool, target TargetType, targetID string, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
SELECT id, action_type, target_type, target_id::text, actor_id::text, COALESCE(reason, ''),
       COALESCE(metadata, '{}'::jsonb), created_at::text
FROM admin_actions
WHERE ($1 = '' OR target_type = $1)
  AND ($2 = '' OR target_id::text = $2)
ORDER BY created_at DESC
LIMIT $3
`
	rows, err := db.Query(ctx, q, string(target), targetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ActionType, &rec.TargetType, &rec.TargetID, &rec.ActorID, &rec.Reason, &rec.Metadata, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
