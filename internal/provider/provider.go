// Package provider assembles per-request engine snapshots from a backing
// store. It owns the boundary concerns the engine refuses to: defaulting
// the anchor date to "today" and bounding the streak window.
package provider

import (
	"context"
	"database/sql"
	"time"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/engine"
	"github.com/pillarcoach/progress-engine/internal/store"
	"github.com/pillarcoach/progress-engine/internal/streak"
)

// SnapshotProvider supplies the engine's input bundle for one user.
// An empty anchorDate means "today" in the product timezone.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, userID, anchorDate string) (engine.Snapshot, error)
}

// engagementFetchLimit is deliberately larger than any streak window so a
// sparse engagement history still covers the whole strip.
const engagementFetchLimit = 62

// StoreProvider reads snapshots from the SQLite store.
type StoreProvider struct {
	DB             *sql.DB
	ProgrammeRepo  *store.ProgrammeRepo
	EngagementRepo *store.EngagementRepo
	HistoryRepo    *store.HistoryRepo
	FocusRepo      *store.FocusRepo

	Location     *time.Location
	StreakWindow int
	FocusCap     int

	// Now is the clock used to default the anchor date. Tests override it.
	Now func() time.Time
}

// NewStoreProvider wires a StoreProvider over an open database.
func NewStoreProvider(db *sql.DB, loc *time.Location, streakWindow, focusCap int) *StoreProvider {
	return &StoreProvider{
		DB:             db,
		ProgrammeRepo:  &store.ProgrammeRepo{},
		EngagementRepo: &store.EngagementRepo{},
		HistoryRepo:    &store.HistoryRepo{},
		FocusRepo:      &store.FocusRepo{},
		Location:       loc,
		StreakWindow:   streakWindow,
		FocusCap:       focusCap,
		Now:            time.Now,
	}
}

// Snapshot fetches the user's records and shapes them for the engine.
// A user without a programme record is unknown.
func (p *StoreProvider) Snapshot(ctx context.Context, userID, anchorDate string) (engine.Snapshot, error) {
	start, err := p.ProgrammeRepo.GetStart(ctx, p.DB, userID)
	if err != nil {
		if err == domain.ErrProgrammeNotFound {
			return engine.Snapshot{}, domain.ErrUserNotFound
		}
		return engine.Snapshot{}, err
	}

	if anchorDate == "" {
		anchorDate = p.Now().In(p.Location).Format("2006-01-02")
	}

	rows, err := p.ProgrammeRepo.ListRows(ctx, p.DB, userID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	focusIDs, err := p.FocusRepo.ListByUser(ctx, p.DB, userID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	activeDates, err := p.EngagementRepo.ListRecentDays(ctx, p.DB, userID, engagementFetchLimit)
	if err != nil {
		return engine.Snapshot{}, err
	}
	history, err := p.HistoryRepo.ListByUser(ctx, p.DB, userID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	return engine.Snapshot{
		UserID:         userID,
		ProgrammeStart: start,
		AnchorDate:     anchorDate,
		Rows:           rows,
		FocusKRIDs:     focusIDs,
		ActiveDates:    activeDates,
		StreakWindow:   streak.BoundWindow(p.StreakWindow),
		FocusCap:       p.FocusCap,
		History:        history,
	}, nil
}
