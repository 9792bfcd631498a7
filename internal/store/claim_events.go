package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/izgubljeno/internal/model"
)

// InsertClaimEvent records a status write of a claim. An empty from marks
// the claim's creation.
func InsertClaimEvent(ctx context.Context, q Querier, claimID int64, from, to string, actorID *int64, at time.Time) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO claim_events (claim_id, from_status, to_status, actor_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		claimID, nullString(from), to, actorID, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording claim event: %w", err)
	}
	return nil
}

// ListClaimEvents returns a claim's history, oldest first.
func ListClaimEvents(ctx context.Context, q Querier, claimID int64) ([]model.ClaimEvent, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, claim_id, from_status, to_status, actor_id, created_at
		 FROM claim_events WHERE claim_id = ?
		 ORDER BY id`, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claim events: %w", err)
	}
	defer rows.Close()

	var events []model.ClaimEvent
	for rows.Next() {
		var e model.ClaimEvent
		var from sql.NullString
		if err := rows.Scan(&e.ID, &e.ClaimID, &from, &e.ToStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning claim event: %w", err)
		}
		e.FromStatus = from.String
		events = append(events, e)
	}
	return events, rows.Err()
}
