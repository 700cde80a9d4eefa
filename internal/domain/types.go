// Package domain defines the core types for the Progress Engine.
package domain

// KRStatus is the derived status label for a key result.
type KRStatus string

const (
	StatusNotStarted KRStatus = "not_started"
	StatusOnTrack    KRStatus = "on_track"
	StatusAtRisk     KRStatus = "at_risk"
	StatusOffTrack   KRStatus = "off_track"
)

// StepStatus is the completion state of a single habit step.
type StepStatus string

const (
	StepTodo StepStatus = "todo"
	StepDone StepStatus = "done"
)

// Pillar is one of the programme's four thematic tracks.
type Pillar string

const (
	PillarNutrition  Pillar = "Nutrition"
	PillarRecovery   Pillar = "Recovery"
	PillarTraining   Pillar = "Training"
	PillarResilience Pillar = "Resilience"
)

// BlockSpec is one 3-week segment of the fixed 12-week programme layout.
type BlockSpec struct {
	Pillar   Pillar
	FirstDay int // 1-based programme day, inclusive
	LastDay  int // inclusive
}

// Blocks is the canonical 4x3-week programme layout. The ordering and day
// boundaries are a domain invariant, not configuration.
var Blocks = [4]BlockSpec{
	{Pillar: PillarNutrition, FirstDay: 1, LastDay: 21},
	{Pillar: PillarRecovery, FirstDay: 22, LastDay: 42},
	{Pillar: PillarTraining, FirstDay: 43, LastDay: 63},
	{Pillar: PillarResilience, FirstDay: 64, LastDay: 84},
}

// ProgrammeDays is the total length of the programme in days.
const ProgrammeDays = 84

// ProgrammeWeeks is the total length of the programme in weeks.
const ProgrammeWeeks = 12

// HabitStep is one actionable step attached to a key result.
type HabitStep struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Status StepStatus `json:"status"`
	WeekNo *int       `json:"week_no,omitempty"`
}

// KeyResult is one measurable objective under a pillar's cycle.
// Baseline/Actual/Target are nullable; a KR with no target cannot produce a
// completion ratio. Date fields are ISO YYYY-MM-DD strings; an empty string
// means the window is open on that side.
type KeyResult struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Baseline    *float64    `json:"baseline,omitempty"`
	Actual      *float64    `json:"actual,omitempty"`
	Target      *float64    `json:"target,omitempty"`
	CycleStart  string      `json:"cycle_start,omitempty"`
	CycleEnd    string      `json:"cycle_end,omitempty"`
	HabitSteps  []HabitStep `json:"habit_steps,omitempty"`
}

// ProgrammeRow is one pillar's key-result set for one cycle.
type ProgrammeRow struct {
	ID         string      `json:"id"`
	Pillar     Pillar      `json:"pillar"`
	Objective  string      `json:"objective"`
	CycleStart string      `json:"cycle_start,omitempty"`
	CycleEnd   string      `json:"cycle_end,omitempty"`
	KeyResults []KeyResult `json:"key_results"`
}

// HistoryKind classifies a history item.
type HistoryKind string

const (
	KindTouchpoint HistoryKind = "touchpoint"
	KindMessage    HistoryKind = "message"
	KindPodcast    HistoryKind = "podcast"
	KindPrompt     HistoryKind = "prompt"
)

// HistoryItem is one touchpoint or dialog message in a user's history.
type HistoryItem struct {
	ID             string      `json:"id"`
	Kind           HistoryKind `json:"kind"`
	TouchpointType string      `json:"touchpoint_type,omitempty"`
	TimestampMS    int64       `json:"timestamp_ms"`
	WeekNo         *int        `json:"week_no,omitempty"`
	Body           string      `json:"body"`
	FullBody       string      `json:"full_body,omitempty"`
	IsTruncated    bool        `json:"is_truncated,omitempty"`
	AudioURL       string      `json:"audio_url,omitempty"`
}

// DerivedStatus is the classifier output for one key result.
type DerivedStatus struct {
	Status KRStatus `json:"status"`
	Ratio  *float64 `json:"completion_ratio"`
}

// StripDay is one cell of the rendered streak strip.
type StripDay struct {
	Date       string `json:"date"`
	Active     bool   `json:"active"`
	BlockIndex int    `json:"block_index"`
}

// StreakView is the streak calculator output.
type StreakView struct {
	Current int        `json:"current"`
	Days    []StripDay `json:"days"`
}

// BlockSummary reports calendar progress through one programme block.
// Percent measures elapsed days of the block's date range, not KR completion.
type BlockSummary struct {
	Pillar     Pillar `json:"pillar"`
	Percent    int    `json:"percent"`
	NotStarted bool   `json:"not_started"`
}

// HistoryBucket groups history items for one programme week, or for kickoff.
type HistoryBucket struct {
	Key   string        `json:"key"` // "kickoff" or "week-N"
	Label string        `json:"label"`
	Week  int           `json:"week"` // 0 for kickoff and unweeked items
	Items []HistoryItem `json:"items"`
}

// KRView pairs a key result with its derived status.
type KRView struct {
	KeyResult KeyResult     `json:"key_result"`
	Derived   DerivedStatus `json:"derived"`
}

// RowView is one programme row with classified key results.
type RowView struct {
	Pillar    Pillar   `json:"pillar"`
	Objective string   `json:"objective"`
	KRs       []KRView `json:"krs"`
}

// DerivedView is the full view model produced for one request.
type DerivedView struct {
	UserID         string          `json:"user_id"`
	AnchorDate     string          `json:"anchor_date"`
	DatesAvailable bool            `json:"dates_available"`
	ProgrammeDay   int             `json:"programme_day"`
	BlockIndex     int             `json:"block_index"`
	Rows           []RowView       `json:"rows"`
	Streak         StreakView      `json:"streak"`
	Blocks         []BlockSummary  `json:"blocks"`
	Focus          []string        `json:"focus"`
	History        []HistoryBucket `json:"history"`
}
