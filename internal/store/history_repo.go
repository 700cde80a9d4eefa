package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pillarcoach/progress-engine/internal/domain"
)

// HistoryRepo handles persistence for touchpoint and dialog history.
type HistoryRepo struct{}

// InsertTx stores one history item.
func (r *HistoryRepo) InsertTx(ctx context.Context, tx *sql.Tx, userID string, item domain.HistoryItem) error {
	const q = `INSERT INTO history_items (id, user_id, kind, touchpoint_type, timestamp_ms, week_no, body, full_body, is_truncated, audio_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		item.ID, userID, string(item.Kind), item.TouchpointType, item.TimestampMS,
		nullInt(item.WeekNo), item.Body, item.FullBody, boolInt(item.IsTruncated), item.AudioURL,
	)
	if err != nil {
		return fmt.Errorf("insert history item: %w", err)
	}
	return nil
}

// ListByUser returns a user's history, newest first.
func (r *HistoryRepo) ListByUser(ctx context.Context, db *sql.DB, userID string) ([]domain.HistoryItem, error) {
	const q = `SELECT id, kind, touchpoint_type, timestamp_ms, week_no, body, full_body, is_truncated, audio_url
FROM history_items WHERE user_id = ? ORDER BY timestamp_ms DESC`

	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list history items: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryItem
	for rows.Next() {
		var item domain.HistoryItem
		var kind string
		var weekNo sql.NullInt64
		var truncated int
		if err := rows.Scan(&item.ID, &kind, &item.TouchpointType, &item.TimestampMS,
			&weekNo, &item.Body, &item.FullBody, &truncated, &item.AudioURL); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		item.Kind = domain.HistoryKind(kind)
		item.WeekNo = intPtr(weekNo)
		item.IsTruncated = truncated != 0
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history items: %w", err)
	}
	return out, nil
}

// DeleteByUserTx removes all history for a user.
func (r *HistoryRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM history_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete history items: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
