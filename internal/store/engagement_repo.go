package store

import (
	"context"
	"database/sql"
	"fmt"
)

// EngagementRepo handles persistence for active-engagement calendar days.
// One row per user per day: duplicate marks for the same day are ignored,
// matching the "active dates are a set" input contract of the engine.
type EngagementRepo struct{}

// MarkDayTx records a day as active for the user. Idempotent.
func (r *EngagementRepo) MarkDayTx(ctx context.Context, tx *sql.Tx, userID, day string) error {
	const q = `INSERT OR IGNORE INTO engagement_days (user_id, day) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, q, userID, day); err != nil {
		return fmt.Errorf("mark engagement day: %w", err)
	}
	return nil
}

// ListRecentDays returns up to limit active days for the user, newest first.
func (r *EngagementRepo) ListRecentDays(ctx context.Context, db *sql.DB, userID string, limit int) ([]string, error) {
	const q = `SELECT day FROM engagement_days WHERE user_id = ? ORDER BY day DESC LIMIT ?`

	rows, err := db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list engagement days: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan engagement day: %w", err)
		}
		out = append(out, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement days: %w", err)
	}
	return out, nil
}

// DeleteByUserTx removes all engagement days for a user.
func (r *EngagementRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM engagement_days WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete engagement days: %w", err)
	}
	return nil
}
