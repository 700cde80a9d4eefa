package streak

import (
	"testing"

	"github.com/pillarcoach/progress-engine/internal/progcal"
)

func day(t *testing.T, date string) int {
	t.Helper()
	d, ok := progcal.DayNumber(date)
	if !ok {
		t.Fatalf("bad test date %q", date)
	}
	return d
}

func TestCalculate_ThreeDayStreak(t *testing.T) {
	// active = {D, D-1, D-2}, anchor = D, window = 10 -> streak 3.
	anchor := day(t, "2024-03-15")
	active := map[string]bool{
		"2024-03-15": true,
		"2024-03-14": true,
		"2024-03-13": true,
	}
	got := Calculate(anchor, active, 10, 0, false)
	if got.Current != 3 {
		t.Errorf("Current = %d, want 3", got.Current)
	}
	if len(got.Days) != 10 {
		t.Errorf("strip length = %d, want 10", len(got.Days))
	}
}

func TestCalculate_InactiveAnchorZeroesStreak(t *testing.T) {
	// A long run ending yesterday does not count: the streak must be live
	// as of the anchor.
	anchor := day(t, "2024-03-15")
	active := map[string]bool{
		"2024-03-14": true,
		"2024-03-13": true,
		"2024-03-12": true,
		"2024-03-11": true,
	}
	got := Calculate(anchor, active, 10, 0, false)
	if got.Current != 0 {
		t.Errorf("Current = %d, want 0", got.Current)
	}
}

func TestCalculate_GapBreaksStreak(t *testing.T) {
	anchor := day(t, "2024-03-15")
	active := map[string]bool{
		"2024-03-15": true,
		"2024-03-14": true,
		// 13th missed
		"2024-03-12": true,
		"2024-03-11": true,
	}
	got := Calculate(anchor, active, 10, 0, false)
	if got.Current != 2 {
		t.Errorf("Current = %d, want 2", got.Current)
	}
}

func TestCalculate_StripOrderAndDates(t *testing.T) {
	anchor := day(t, "2024-03-15")
	got := Calculate(anchor, nil, 3, 0, false)
	wantDates := []string{"2024-03-13", "2024-03-14", "2024-03-15"}
	if len(got.Days) != len(wantDates) {
		t.Fatalf("strip length = %d, want %d", len(got.Days), len(wantDates))
	}
	for i, w := range wantDates {
		if got.Days[i].Date != w {
			t.Errorf("Days[%d].Date = %q, want %q", i, got.Days[i].Date, w)
		}
	}
}

func TestCalculate_FullWindowStreak(t *testing.T) {
	anchor := day(t, "2024-03-15")
	active := map[string]bool{}
	for d := anchor - 9; d <= anchor; d++ {
		active[progcal.Date(d)] = true
	}
	got := Calculate(anchor, active, 10, 0, false)
	if got.Current != 10 {
		t.Errorf("Current = %d, want 10", got.Current)
	}
}

func TestCalculate_BlockColoring(t *testing.T) {
	start := day(t, "2024-01-01")
	// Anchor on programme day 25 (block 1).
	anchor := start + 24
	got := Calculate(anchor, nil, 10, start, true)
	last := got.Days[len(got.Days)-1]
	if last.BlockIndex != 1 {
		t.Errorf("anchor day block = %d, want 1", last.BlockIndex)
	}
	// Day 16 of the strip window maps back into block 0.
	first := got.Days[0]
	if first.BlockIndex != 0 {
		t.Errorf("first strip day block = %d, want 0", first.BlockIndex)
	}
}

func TestCalculate_OutsideProgrammeFallsBackToBlockZero(t *testing.T) {
	start := day(t, "2024-01-01")
	// Anchor well after the programme ends.
	anchor := start + 200
	got := Calculate(anchor, nil, 5, start, true)
	for i, d := range got.Days {
		if d.BlockIndex != 0 {
			t.Errorf("Days[%d].BlockIndex = %d, want 0 outside programme", i, d.BlockIndex)
		}
	}
	// Anchor before the programme starts.
	got = Calculate(start-10, nil, 5, start, true)
	for i, d := range got.Days {
		if d.BlockIndex != 0 {
			t.Errorf("pre-start Days[%d].BlockIndex = %d, want 0", i, d.BlockIndex)
		}
	}
}

func TestBoundWindow(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultWindow},
		{-3, DefaultWindow},
		{1, 1},
		{10, 10},
		{14, 14},
		{15, MaxWindow},
		{100, MaxWindow},
	}
	for _, c := range cases {
		if got := BoundWindow(c.in); got != c.want {
			t.Errorf("BoundWindow(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
