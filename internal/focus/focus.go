// Package focus selects the habit-step texts surfaced as "today's focus".
package focus

import (
	"strings"

	"github.com/pillarcoach/progress-engine/internal/domain"
)

// DefaultCap bounds the number of focus texts shown.
const DefaultCap = 4

// Select picks a deduplicated, capped list of habit-step texts. Sources are
// tried in priority order and the first non-empty one wins:
//
//  1. steps of KRs a coach has marked as focus, across all rows;
//  2. steps of the row whose pillar matches the active block;
//  3. steps of any row.
//
// The fallback chain guarantees a user sees something actionable even
// before focus KRs have been chosen.
func Select(rows []domain.ProgrammeRow, focusIDs map[string]bool, blockPillar domain.Pillar, limit int) []string {
	if limit < 1 {
		limit = DefaultCap
	}

	if out := collect(rows, limit, func(row domain.ProgrammeRow, kr domain.KeyResult) bool {
		return focusIDs[kr.ID]
	}); len(out) > 0 {
		return out
	}

	if out := collect(rows, limit, func(row domain.ProgrammeRow, kr domain.KeyResult) bool {
		return row.Pillar == blockPillar
	}); len(out) > 0 {
		return out
	}

	return collect(rows, limit, func(domain.ProgrammeRow, domain.KeyResult) bool {
		return true
	})
}

func collect(rows []domain.ProgrammeRow, limit int, include func(domain.ProgrammeRow, domain.KeyResult) bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for _, kr := range row.KeyResults {
			if !include(row, kr) {
				continue
			}
			for _, step := range kr.HabitSteps {
				text := strings.TrimSpace(step.Text)
				if text == "" {
					continue
				}
				key := strings.ToLower(text)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, text)
				if len(out) == limit {
					return out
				}
			}
		}
	}
	return out
}
