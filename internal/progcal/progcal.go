// Package progcal converts between calendar dates and programme-relative
// day, week, and block positions on the fixed 12-week layout.
package progcal

import (
	"time"

	"github.com/pillarcoach/progress-engine/internal/domain"
)

const isoDate = "2006-01-02"

const secondsPerDay = 86400

// DayNumber converts an ISO YYYY-MM-DD date to an integer day number
// (days since the Unix epoch). The date is interpreted as a UTC calendar
// day, never as a local instant, so the same string always maps to the
// same day number regardless of server timezone. Empty or unparseable
// input returns ok=false.
func DayNumber(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return 0, false
	}
	return int(t.Unix() / secondsPerDay), true
}

// Date is the inverse of DayNumber.
func Date(day int) string {
	return time.Unix(int64(day)*secondsPerDay, 0).UTC().Format(isoDate)
}

// ProgrammeDay maps a query day number onto the programme timeline.
// Day 1 is the programme start date; the result is clamped to [0, 84],
// where 0 means "before the programme started".
func ProgrammeDay(startDay, queryDay int) int {
	return clamp(queryDay-startDay+1, 0, domain.ProgrammeDays)
}

// BlockIndexForDay maps a programme day to one of the four canonical
// blocks. The result is always in [0, 3], even for days outside the
// 84-day programme.
func BlockIndexForDay(programmeDay int) int {
	return clamp((programmeDay-1)/21, 0, 3)
}

// BlockForWeek returns the pillar active during a programme week
// (weeks 1-3 Nutrition, 4-6 Recovery, 7-9 Training, 10-12 Resilience).
// Weeks outside 1-12 have no pillar.
func BlockForWeek(weekNo int) (domain.Pillar, bool) {
	if weekNo < 1 || weekNo > domain.ProgrammeWeeks {
		return "", false
	}
	return domain.Blocks[(weekNo-1)/3].Pillar, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
