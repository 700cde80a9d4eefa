// Package krstatus classifies a key result's progress as of a given date.
package krstatus

import (
	"math"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/progcal"
)

// epsilon guards divisions against zero-length measurement ranges.
const epsilon = 1e-9

// Thresholds applied once a cycle has fully elapsed. While the cycle is
// still open a KR is never penalized; the ratio is provisional only.
const (
	onTrackThreshold = 0.9
	atRiskThreshold  = 0.5
)

// Classify derives the status label and completion ratio for one key
// result as of the given day number. Absent or unparseable cycle dates
// degrade: no start means "already started", no end means "never finished".
// Pure and deterministic.
func Classify(kr domain.KeyResult, asOfDay int) domain.DerivedStatus {
	hasStarted := true
	if startDay, ok := progcal.DayNumber(kr.CycleStart); ok {
		hasStarted = asOfDay >= startDay
	}
	hasFinished := false
	if endDay, ok := progcal.DayNumber(kr.CycleEnd); ok {
		hasFinished = asOfDay > endDay
	}

	if !hasStarted {
		return domain.DerivedStatus{Status: domain.StatusNotStarted}
	}

	ratio := CompletionRatio(kr)

	if !hasFinished {
		return domain.DerivedStatus{Status: domain.StatusOnTrack, Ratio: ratio}
	}

	status := domain.StatusOffTrack
	switch {
	case ratio == nil:
		status = domain.StatusOffTrack
	case *ratio >= onTrackThreshold:
		status = domain.StatusOnTrack
	case *ratio >= atRiskThreshold:
		status = domain.StatusAtRisk
	}
	return domain.DerivedStatus{Status: status, Ratio: ratio}
}

// CompletionRatio computes the clamped [0,1] progress ratio, or nil when
// the KR is unratable. A baseline that meaningfully differs from the
// target switches to the baseline-relative formula, supporting KRs that
// measure change from a non-zero starting point. A zero target with no
// usable baseline is unratable, never 100%.
func CompletionRatio(kr domain.KeyResult) *float64 {
	if kr.Actual == nil || kr.Target == nil {
		return nil
	}
	actual, target := *kr.Actual, *kr.Target

	if kr.Baseline != nil && math.Abs(target-*kr.Baseline) > epsilon {
		r := clamp01((actual - *kr.Baseline) / (target - *kr.Baseline))
		return &r
	}
	if math.Abs(target) > epsilon {
		r := clamp01(actual / target)
		return &r
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
