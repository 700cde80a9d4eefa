package ipc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/engine"
)

type fakeProvider struct {
	snap       engine.Snapshot
	err        error
	lastUser   string
	lastAnchor string
}

func (f *fakeProvider) Snapshot(_ context.Context, userID, anchorDate string) (engine.Snapshot, error) {
	f.lastUser = userID
	f.lastAnchor = anchorDate
	if f.err != nil {
		return engine.Snapshot{}, f.err
	}
	snap := f.snap
	snap.UserID = userID
	if anchorDate != "" {
		snap.AnchorDate = anchorDate
	}
	return snap, nil
}

func testSnapshot() engine.Snapshot {
	return engine.Snapshot{
		ProgrammeStart: "2024-01-01",
		AnchorDate:     "2024-01-25",
		Rows: []domain.ProgrammeRow{
			{
				ID:     "row-1",
				Pillar: domain.PillarNutrition,
				KeyResults: []domain.KeyResult{
					{ID: "kr-1", HabitSteps: []domain.HabitStep{{ID: "s1", Text: "eat protein"}}},
				},
			},
		},
		ActiveDates:  []string{"2024-01-25", "2024-01-24"},
		StreakWindow: 10,
	}
}

func newTestServer(p *fakeProvider) *httptest.Server {
	srv := NewServer(&Handler{Provider: p}, ":0")
	return httptest.NewServer(srv.httpServer.Handler)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&fakeProvider{snap: testSnapshot()})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetDashboard(t *testing.T) {
	p := &fakeProvider{snap: testSnapshot()}
	ts := newTestServer(p)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/user-1/dashboard?anchor=2024-01-25")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var view domain.DerivedView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.UserID != "user-1" {
		t.Errorf("user = %q", view.UserID)
	}
	if view.ProgrammeDay != 25 || view.BlockIndex != 1 {
		t.Errorf("position = day %d block %d, want 25/1", view.ProgrammeDay, view.BlockIndex)
	}
	if view.Streak.Current != 2 {
		t.Errorf("streak = %d, want 2", view.Streak.Current)
	}
	if p.lastUser != "user-1" || p.lastAnchor != "2024-01-25" {
		t.Errorf("provider called with (%q, %q)", p.lastUser, p.lastAnchor)
	}
}

func TestGetStreak_WindowOverride(t *testing.T) {
	ts := newTestServer(&fakeProvider{snap: testSnapshot()})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/user-1/streak?window=5")
	if err != nil {
		t.Fatalf("GET streak: %v", err)
	}
	defer resp.Body.Close()

	var sv domain.StreakView
	if err := json.NewDecoder(resp.Body).Decode(&sv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sv.Days) != 5 {
		t.Errorf("strip length = %d, want 5", len(sv.Days))
	}

	// Oversized window is capped, not rejected.
	resp2, err := http.Get(ts.URL + "/api/v1/users/user-1/streak?window=99")
	if err != nil {
		t.Fatalf("GET streak: %v", err)
	}
	defer resp2.Body.Close()
	if err := json.NewDecoder(resp2.Body).Decode(&sv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sv.Days) != 14 {
		t.Errorf("strip length = %d, want 14", len(sv.Days))
	}
}

func TestUnknownUser_NotFound(t *testing.T) {
	ts := newTestServer(&fakeProvider{err: domain.ErrUserNotFound})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/nobody/dashboard")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var apiErr APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != domain.ErrUserNotFound.Code {
		t.Errorf("code = %d, want %d", apiErr.Code, domain.ErrUserNotFound.Code)
	}
}

func TestDatesUnavailable_Unprocessable(t *testing.T) {
	snap := testSnapshot()
	snap.ProgrammeStart = ""
	snap.AnchorDate = ""
	ts := newTestServer(&fakeProvider{snap: snap})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/user-1/dashboard")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestGetFocus_EmptyListNotNull(t *testing.T) {
	snap := testSnapshot()
	snap.Rows = nil
	ts := newTestServer(&fakeProvider{snap: snap})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/user-1/focus")
	if err != nil {
		t.Fatalf("GET focus: %v", err)
	}
	defer resp.Body.Close()

	var focus []string
	if err := json.NewDecoder(resp.Body).Decode(&focus); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if focus == nil || len(focus) != 0 {
		t.Errorf("focus = %v, want empty array", focus)
	}
}

func TestGetHistoryAndBlocks(t *testing.T) {
	weekNo := 2
	snap := testSnapshot()
	snap.History = []domain.HistoryItem{
		{ID: "h1", Kind: domain.KindMessage, TimestampMS: 1000, WeekNo: &weekNo, Body: "note"},
	}
	ts := newTestServer(&fakeProvider{snap: snap})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/user-1/history")
	if err != nil {
		t.Fatalf("GET history: %v", err)
	}
	defer resp.Body.Close()
	var buckets []domain.HistoryBucket
	if err := json.NewDecoder(resp.Body).Decode(&buckets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Key != "week-2" {
		t.Errorf("buckets = %+v", buckets)
	}

	resp2, err := http.Get(ts.URL + "/api/v1/users/user-1/blocks?anchor=2024-01-25")
	if err != nil {
		t.Fatalf("GET blocks: %v", err)
	}
	defer resp2.Body.Close()
	var blocks []domain.BlockSummary
	if err := json.NewDecoder(resp2.Body).Decode(&blocks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(blocks) != 4 {
		t.Errorf("blocks = %d, want 4", len(blocks))
	}
}
