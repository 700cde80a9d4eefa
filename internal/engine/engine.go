// Package engine derives the full programme view model from one snapshot
// of a user's raw records. Every function here is pure: no I/O, no clock,
// no shared state, so concurrent requests never interact.
package engine

import (
	"github.com/pillarcoach/progress-engine/internal/blocks"
	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/focus"
	"github.com/pillarcoach/progress-engine/internal/history"
	"github.com/pillarcoach/progress-engine/internal/krstatus"
	"github.com/pillarcoach/progress-engine/internal/progcal"
	"github.com/pillarcoach/progress-engine/internal/streak"
)

// Snapshot is the per-request input bundle. The data provider fetches and
// shapes it; the engine only classifies and summarizes. The anchor date is
// the date the view is computed "as of"; callers default it to "today",
// never the engine, so every derivation is reproducible.
type Snapshot struct {
	UserID         string               `json:"user_id"`
	ProgrammeStart string               `json:"programme_start"`
	AnchorDate     string               `json:"anchor_date"`
	Rows           []domain.ProgrammeRow `json:"rows"`
	FocusKRIDs     []string             `json:"focus_kr_ids"`
	ActiveDates    []string             `json:"active_dates"`
	StreakWindow   int                  `json:"streak_window"`
	FocusCap       int                  `json:"focus_cap"`
	History        []domain.HistoryItem `json:"history"`
}

// BuildView runs all derivation components over the snapshot and assembles
// the view model. Malformed fields degrade to neutral values per component;
// the only hard failure is an unusable anchor date AND programme start,
// which leaves every programme-position feature undefined.
//
// When only the programme start is missing, KR statuses, focus, and history
// still derive; the view carries DatesAvailable=false, block summaries all
// read not-started, and streak coloring falls back to block 0.
func BuildView(snap Snapshot) (*domain.DerivedView, error) {
	anchorDay, anchorOK := progcal.DayNumber(snap.AnchorDate)
	startDay, startOK := progcal.DayNumber(snap.ProgrammeStart)

	if !anchorOK && !startOK {
		return nil, domain.ErrProgrammeDatesUnavailable
	}
	if !anchorOK {
		// No anchor but a known start: view the programme from day 1.
		anchorDay = startDay
	}

	view := &domain.DerivedView{
		UserID:         snap.UserID,
		AnchorDate:     progcal.Date(anchorDay),
		DatesAvailable: startOK,
	}

	if startOK {
		view.ProgrammeDay = progcal.ProgrammeDay(startDay, anchorDay)
		view.BlockIndex = progcal.BlockIndexForDay(view.ProgrammeDay)
		view.Blocks = blocks.Summarize(startDay, anchorDay)
	} else {
		view.Blocks = neutralBlocks()
	}

	view.Rows = classifyRows(snap.Rows, anchorDay)
	view.Streak = streak.Calculate(anchorDay, activeDateSet(snap.ActiveDates), snap.StreakWindow, startDay, startOK)
	view.Focus = focus.Select(snap.Rows, focusIDSet(snap.FocusKRIDs), domain.Blocks[view.BlockIndex].Pillar, snap.FocusCap)
	view.History = history.Group(snap.History)

	return view, nil
}

func classifyRows(rows []domain.ProgrammeRow, asOfDay int) []domain.RowView {
	out := make([]domain.RowView, 0, len(rows))
	for _, row := range rows {
		rv := domain.RowView{Pillar: row.Pillar, Objective: row.Objective}
		for _, kr := range row.KeyResults {
			rv.KRs = append(rv.KRs, domain.KRView{
				KeyResult: kr,
				Derived:   krstatus.Classify(kr, asOfDay),
			})
		}
		out = append(out, rv)
	}
	return out
}

// activeDateSet normalizes engagement dates once at the boundary: invalid
// entries are dropped, valid ones keyed by their canonical ISO form.
func activeDateSet(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		if day, ok := progcal.DayNumber(d); ok {
			set[progcal.Date(day)] = true
		}
	}
	return set
}

func focusIDSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

func neutralBlocks() []domain.BlockSummary {
	out := make([]domain.BlockSummary, 0, len(domain.Blocks))
	for _, b := range domain.Blocks {
		out = append(out, domain.BlockSummary{Pillar: b.Pillar, Percent: 0, NotStarted: true})
	}
	return out
}
