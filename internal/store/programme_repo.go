package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pillarcoach/progress-engine/internal/domain"
)

// ProgrammeRepo handles persistence for programmes, rows, key results, and
// habit steps.
type ProgrammeRepo struct{}

// SetStartTx records (or replaces) the programme start date for a user.
func (r *ProgrammeRepo) SetStartTx(ctx context.Context, tx *sql.Tx, userID, startDate string) error {
	const q = `INSERT INTO programmes (user_id, start_date) VALUES (?, ?)
ON CONFLICT(user_id) DO UPDATE SET start_date = excluded.start_date`
	if _, err := tx.ExecContext(ctx, q, userID, startDate); err != nil {
		return fmt.Errorf("set programme start: %w", err)
	}
	return nil
}

// GetStart returns the programme start date for a user.
func (r *ProgrammeRepo) GetStart(ctx context.Context, db *sql.DB, userID string) (string, error) {
	const q = `SELECT start_date FROM programmes WHERE user_id = ?`
	var start string
	err := db.QueryRowContext(ctx, q, userID).Scan(&start)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrProgrammeNotFound
		}
		return "", fmt.Errorf("get programme start: %w", err)
	}
	return start, nil
}

// CreateRowTx inserts a programme row together with its key results and
// habit steps, preserving input order through position columns.
func (r *ProgrammeRepo) CreateRowTx(ctx context.Context, tx *sql.Tx, userID string, position int, row domain.ProgrammeRow) error {
	const rowQ = `INSERT INTO programme_rows (id, user_id, pillar, objective, cycle_start, cycle_end, position)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, rowQ,
		row.ID, userID, string(row.Pillar), row.Objective, row.CycleStart, row.CycleEnd, position,
	); err != nil {
		return fmt.Errorf("create programme row: %w", err)
	}

	const krQ = `INSERT INTO key_results (id, row_id, description, baseline, actual, target, cycle_start, cycle_end, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const stepQ = `INSERT INTO habit_steps (id, kr_id, text, status, week_no, position)
VALUES (?, ?, ?, ?, ?, ?)`

	for ki, kr := range row.KeyResults {
		if _, err := tx.ExecContext(ctx, krQ,
			kr.ID, row.ID, kr.Description,
			nullFloat(kr.Baseline), nullFloat(kr.Actual), nullFloat(kr.Target),
			kr.CycleStart, kr.CycleEnd, ki,
		); err != nil {
			return fmt.Errorf("create key result: %w", err)
		}
		for si, step := range kr.HabitSteps {
			if _, err := tx.ExecContext(ctx, stepQ,
				step.ID, kr.ID, step.Text, string(step.Status), nullInt(step.WeekNo), si,
			); err != nil {
				return fmt.Errorf("create habit step: %w", err)
			}
		}
	}
	return nil
}

// ListRows loads a user's programme rows with nested key results and steps.
func (r *ProgrammeRepo) ListRows(ctx context.Context, db *sql.DB, userID string) ([]domain.ProgrammeRow, error) {
	const rowQ = `SELECT id, pillar, objective, cycle_start, cycle_end
FROM programme_rows WHERE user_id = ? ORDER BY position`

	rows, err := db.QueryContext(ctx, rowQ, userID)
	if err != nil {
		return nil, fmt.Errorf("list programme rows: %w", err)
	}
	defer rows.Close()

	var out []domain.ProgrammeRow
	for rows.Next() {
		var pr domain.ProgrammeRow
		var pillar string
		if err := rows.Scan(&pr.ID, &pillar, &pr.Objective, &pr.CycleStart, &pr.CycleEnd); err != nil {
			return nil, fmt.Errorf("scan programme row: %w", err)
		}
		pr.Pillar = domain.Pillar(pillar)
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programme rows: %w", err)
	}

	for i := range out {
		krs, err := r.listKeyResults(ctx, db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].KeyResults = krs
	}
	return out, nil
}

func (r *ProgrammeRepo) listKeyResults(ctx context.Context, db *sql.DB, rowID string) ([]domain.KeyResult, error) {
	const krQ = `SELECT id, description, baseline, actual, target, cycle_start, cycle_end
FROM key_results WHERE row_id = ? ORDER BY position`

	rows, err := db.QueryContext(ctx, krQ, rowID)
	if err != nil {
		return nil, fmt.Errorf("list key results: %w", err)
	}
	defer rows.Close()

	var out []domain.KeyResult
	for rows.Next() {
		var kr domain.KeyResult
		var baseline, actual, target sql.NullFloat64
		if err := rows.Scan(&kr.ID, &kr.Description, &baseline, &actual, &target, &kr.CycleStart, &kr.CycleEnd); err != nil {
			return nil, fmt.Errorf("scan key result: %w", err)
		}
		kr.Baseline = floatPtr(baseline)
		kr.Actual = floatPtr(actual)
		kr.Target = floatPtr(target)
		out = append(out, kr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate key results: %w", err)
	}

	for i := range out {
		steps, err := r.listHabitSteps(ctx, db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].HabitSteps = steps
	}
	return out, nil
}

func (r *ProgrammeRepo) listHabitSteps(ctx context.Context, db *sql.DB, krID string) ([]domain.HabitStep, error) {
	const q = `SELECT id, text, status, week_no FROM habit_steps WHERE kr_id = ? ORDER BY position`

	rows, err := db.QueryContext(ctx, q, krID)
	if err != nil {
		return nil, fmt.Errorf("list habit steps: %w", err)
	}
	defer rows.Close()

	var out []domain.HabitStep
	for rows.Next() {
		var s domain.HabitStep
		var status string
		var weekNo sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Text, &status, &weekNo); err != nil {
			return nil, fmt.Errorf("scan habit step: %w", err)
		}
		s.Status = normalizeStepStatus(status)
		s.WeekNo = intPtr(weekNo)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habit steps: %w", err)
	}
	return out, nil
}

// DeleteByUserTx removes all programme data for a user.
func (r *ProgrammeRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	stmts := []string{
		`DELETE FROM habit_steps WHERE kr_id IN (
			SELECT kr.id FROM key_results kr
			JOIN programme_rows pr ON kr.row_id = pr.id WHERE pr.user_id = ?)`,
		`DELETE FROM key_results WHERE row_id IN (
			SELECT id FROM programme_rows WHERE user_id = ?)`,
		`DELETE FROM programme_rows WHERE user_id = ?`,
		`DELETE FROM programmes WHERE user_id = ?`,
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return fmt.Errorf("delete programme data: %w", err)
		}
	}
	return nil
}

// normalizeStepStatus maps free-text status values from upstream systems
// onto the two canonical states. Anything that does not clearly say "done"
// is still to do.
func normalizeStepStatus(s string) domain.StepStatus {
	switch s {
	case "done", "complete", "completed":
		return domain.StepDone
	default:
		return domain.StepTodo
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
