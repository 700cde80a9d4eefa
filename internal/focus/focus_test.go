package focus

import (
	"reflect"
	"testing"

	"github.com/pillarcoach/progress-engine/internal/domain"
)

func step(text string) domain.HabitStep {
	return domain.HabitStep{ID: "step-" + text, Text: text, Status: domain.StepTodo}
}

func makeRows() []domain.ProgrammeRow {
	return []domain.ProgrammeRow{
		{
			ID:     "row-nutrition",
			Pillar: domain.PillarNutrition,
			KeyResults: []domain.KeyResult{
				{ID: "kr-1", HabitSteps: []domain.HabitStep{step("Eat protein at breakfast"), step("Drink 2L water")}},
				{ID: "kr-2", HabitSteps: []domain.HabitStep{step("Plan meals on Sunday")}},
			},
		},
		{
			ID:     "row-recovery",
			Pillar: domain.PillarRecovery,
			KeyResults: []domain.KeyResult{
				{ID: "kr-3", HabitSteps: []domain.HabitStep{step("Lights out by 22:30"), step("No screens after 21:30")}},
			},
		},
	}
}

func TestSelect_FocusKRsWin(t *testing.T) {
	got := Select(makeRows(), map[string]bool{"kr-3": true}, domain.PillarNutrition, 4)
	want := []string{"Lights out by 22:30", "No screens after 21:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelect_FallsBackToCurrentBlockRow(t *testing.T) {
	got := Select(makeRows(), nil, domain.PillarRecovery, 4)
	want := []string{"Lights out by 22:30", "No screens after 21:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelect_FallsBackToAllRows(t *testing.T) {
	// Block pillar matches no row: take steps from anywhere.
	got := Select(makeRows(), nil, domain.PillarTraining, 4)
	if len(got) == 0 {
		t.Fatal("expected a non-empty fallback list")
	}
	if got[0] != "Eat protein at breakfast" {
		t.Errorf("got[0] = %q", got[0])
	}
}

func TestSelect_CapApplied(t *testing.T) {
	got := Select(makeRows(), nil, domain.PillarTraining, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSelect_DefaultCap(t *testing.T) {
	rows := makeRows()
	got := Select(rows, nil, domain.PillarTraining, 0)
	if len(got) != DefaultCap {
		t.Errorf("len = %d, want %d", len(got), DefaultCap)
	}
}

func TestSelect_DedupCaseAndWhitespace(t *testing.T) {
	rows := []domain.ProgrammeRow{
		{
			Pillar: domain.PillarNutrition,
			KeyResults: []domain.KeyResult{
				{ID: "kr-1", HabitSteps: []domain.HabitStep{
					step("Drink 2L water"),
					step("  drink 2l WATER  "),
					step("Stretch for 10 minutes"),
				}},
			},
		},
	}
	got := Select(rows, nil, domain.PillarNutrition, 4)
	want := []string{"Drink 2L water", "Stretch for 10 minutes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelect_SkipsEmptyTexts(t *testing.T) {
	rows := []domain.ProgrammeRow{
		{
			Pillar: domain.PillarNutrition,
			KeyResults: []domain.KeyResult{
				{ID: "kr-1", HabitSteps: []domain.HabitStep{step(""), step("   "), step("Walk after lunch")}},
			},
		},
	}
	got := Select(rows, nil, domain.PillarNutrition, 4)
	want := []string{"Walk after lunch"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelect_EmptyInput(t *testing.T) {
	if got := Select(nil, nil, domain.PillarNutrition, 4); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSelect_FocusAcrossRows(t *testing.T) {
	// Focus set spanning both rows collects from each, in row order.
	got := Select(makeRows(), map[string]bool{"kr-2": true, "kr-3": true}, domain.PillarNutrition, 4)
	want := []string{"Plan meals on Sunday", "Lights out by 22:30", "No screens after 21:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
