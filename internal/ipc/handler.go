// Package ipc provides the HTTP API for the Progress Engine.
package ipc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/engine"
	"github.com/pillarcoach/progress-engine/internal/provider"
	"github.com/pillarcoach/progress-engine/internal/streak"
)

// Handler holds all dependencies for the HTTP handlers.
type Handler struct {
	Provider provider.SnapshotProvider
}

// APIError is a structured error response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDashboard handles GET /api/v1/users/{userID}/dashboard?anchor=YYYY-MM-DD.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetStreak handles GET /api/v1/users/{userID}/streak?anchor=&window=.
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Streak)
}

// GetBlocks handles GET /api/v1/users/{userID}/blocks?anchor=.
func (h *Handler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Blocks)
}

// GetFocus handles GET /api/v1/users/{userID}/focus?anchor=.
func (h *Handler) GetFocus(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if view.Focus == nil {
		view.Focus = []string{}
	}
	writeJSON(w, http.StatusOK, view.Focus)
}

// GetHistory handles GET /api/v1/users/{userID}/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if view.History == nil {
		view.History = []domain.HistoryBucket{}
	}
	writeJSON(w, http.StatusOK, view.History)
}

// buildView fetches the user's snapshot and runs the derivation engine.
// The anchor query parameter backdates the view; window overrides the
// streak strip length within its product bounds.
func (h *Handler) buildView(r *http.Request) (*domain.DerivedView, error) {
	userID := r.PathValue("userID")
	anchor := r.URL.Query().Get("anchor")

	snap, err := h.Provider.Snapshot(r.Context(), userID, anchor)
	if err != nil {
		return nil, err
	}

	if s := r.URL.Query().Get("window"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			snap.StreakWindow = streak.BoundWindow(parsed)
		}
	}

	return engine.BuildView(snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if engErr, ok := err.(*domain.EngineError); ok {
		status := http.StatusInternalServerError
		switch engErr.Code {
		case domain.ErrUserNotFound.Code, domain.ErrProgrammeNotFound.Code:
			status = http.StatusNotFound
		case domain.ErrProgrammeDatesUnavailable.Code:
			status = http.StatusUnprocessableEntity
		case domain.ErrConfigInvalid.Code:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, APIError{Code: engErr.Code, Message: engErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, APIError{Code: -1, Message: err.Error()})
}
