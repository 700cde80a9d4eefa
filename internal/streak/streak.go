// Package streak computes the consecutive-day engagement streak and the
// day strip rendered beneath it.
package streak

import (
	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/progcal"
)

// DefaultWindow is the strip length used when the caller does not supply one.
const DefaultWindow = 10

// MaxWindow caps the strip length regardless of caller input.
const MaxWindow = 14

// BoundWindow normalizes a requested window size: non-positive values get
// the default, oversized values are capped.
func BoundWindow(w int) int {
	if w < 1 {
		return DefaultWindow
	}
	if w > MaxWindow {
		return MaxWindow
	}
	return w
}

// Calculate builds the window-day strip ending at anchorDay and counts the
// current streak. activeDates holds ISO dates (one entry per calendar day
// with recorded activity). startDay positions each strip day on the
// programme for block coloring; hasStart=false (or a day outside the
// 84-day programme) falls back to block 0. The index is cosmetic only.
//
// The streak is live-as-of-the-anchor: an inactive anchor day means a
// streak of zero even if a long run ended the day before.
func Calculate(anchorDay int, activeDates map[string]bool, window int, startDay int, hasStart bool) domain.StreakView {
	window = BoundWindow(window)

	days := make([]domain.StripDay, 0, window)
	for d := anchorDay - window + 1; d <= anchorDay; d++ {
		date := progcal.Date(d)
		days = append(days, domain.StripDay{
			Date:       date,
			Active:     activeDates[date],
			BlockIndex: blockIndex(d, startDay, hasStart),
		})
	}

	current := 0
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i].Active {
			break
		}
		current++
	}

	return domain.StreakView{Current: current, Days: days}
}

func blockIndex(day, startDay int, hasStart bool) int {
	if !hasStart {
		return 0
	}
	offset := day - startDay + 1
	if offset < 1 || offset > domain.ProgrammeDays {
		return 0
	}
	return progcal.BlockIndexForDay(offset)
}
