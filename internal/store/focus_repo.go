package store

import (
	"context"
	"database/sql"
	"fmt"
)

// FocusRepo handles persistence for coach-selected focus KR marks.
type FocusRepo struct{}

// MarkTx flags a key result as a focus KR for the user. Idempotent.
func (r *FocusRepo) MarkTx(ctx context.Context, tx *sql.Tx, userID, krID string) error {
	const q = `INSERT OR IGNORE INTO focus_krs (user_id, kr_id) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, q, userID, krID); err != nil {
		return fmt.Errorf("mark focus kr: %w", err)
	}
	return nil
}

// ListByUser returns the focus KR ids for a user.
func (r *FocusRepo) ListByUser(ctx context.Context, db *sql.DB, userID string) ([]string, error) {
	const q = `SELECT kr_id FROM focus_krs WHERE user_id = ? ORDER BY id`

	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list focus krs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan focus kr: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate focus krs: %w", err)
	}
	return out, nil
}

// DeleteByUserTx removes all focus marks for a user.
func (r *FocusRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM focus_krs WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete focus krs: %w", err)
	}
	return nil
}
