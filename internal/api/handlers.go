package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/coinrush/internal/progress"
	"github.com/hyperengineering/coinrush/internal/sync"
	"github.com/hyperengineering/coinrush/internal/types"
	"github.com/hyperengineering/coinrush/internal/validation"
)

// Handler implements the API handlers
type Handler struct {
	store           *progress.Store
	journal         *progress.Journal
	processor       *sync.Processor
	leaderboardSize int
	version         string
}

// NewHandler creates a Handler over the shared store and sync pipeline.
func NewHandler(
	store *progress.Store,
	journal *progress.Journal,
	processor *sync.Processor,
	leaderboardSize int,
	version string,
) *Handler {
	if leaderboardSize <= 0 {
		leaderboardSize = 100
	}
	return &Handler{
		store:           store,
		journal:         journal,
		processor:       processor,
		leaderboardSize: leaderboardSize,
		version:         version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		UserCount: h.store.Len(),
	})
}

// GetUser handles GET /api/user/{userID}. An unknown user ID creates
// the default record.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := validation.ValidateUserID("userId", userID); err != nil {
		writeError(w, http.StatusBadRequest, errMissingData)
		return
	}

	rec := h.store.GetOrCreate(userID)
	writeJSON(w, http.StatusOK, rec)
}

// Tap handles POST /api/tap: one client sync reporting coins earned
// since the last sync. All policy lives in the sync processor; this
// handler only decodes and translates errors.
func (h *Handler) Tap(w http.ResponseWriter, r *http.Request) {
	var req types.TapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errMissingData)
		return
	}

	rec, err := h.processor.Apply(req)
	if err != nil {
		mapSyncError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Leaderboard handles GET /api/leaderboard.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.TopN(h.leaderboardSize))
}

// Journal handles GET /api/journal: the most recent accepted syncs,
// newest first.
func (h *Handler) Journal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.journal.Recent())
}
