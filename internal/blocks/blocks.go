// Package blocks summarizes calendar progress through the four programme blocks.
package blocks

import (
	"math"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/progcal"
)

const blockLengthDays = 21

// Summarize reports, for each canonical block, how much of its 3-week date
// range has elapsed as of the anchor day. This is calendar progress, not KR
// completion: it answers "how far into this window is the user", not "how
// well are they doing".
func Summarize(startDay, anchorDay int) []domain.BlockSummary {
	programmeDay := progcal.ProgrammeDay(startDay, anchorDay)

	out := make([]domain.BlockSummary, 0, len(domain.Blocks))
	for _, b := range domain.Blocks {
		daysInto := programmeDay - b.FirstDay + 1
		if daysInto < 0 {
			daysInto = 0
		}
		if daysInto > blockLengthDays {
			daysInto = blockLengthDays
		}
		out = append(out, domain.BlockSummary{
			Pillar:     b.Pillar,
			Percent:    int(math.Round(float64(daysInto) / blockLengthDays * 100)),
			NotStarted: daysInto == 0,
		})
	}
	return out
}
