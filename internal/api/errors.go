package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/coinrush/internal/sync"
	"github.com/hyperengineering/coinrush/internal/types"
)

// Fixed error bodies the game client matches on. These strings are part
// of the client contract and must not change.
const (
	errMissingData     = "Missing data"
	errInvalidInitData = "Invalid initData"
	errTooFast         = "Too fast"
	errInternal        = "Internal error"
)

// writeJSON encodes v with the given status and JSON content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError emits the fixed {"error": "..."} body for a status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.ErrorResponse{Error: message})
}

// mapSyncError converts pipeline errors to client responses. Rejections
// carry no detail beyond the fixed message; unexpected errors are
// logged server-side and downgraded to a generic 500.
func mapSyncError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sync.ErrValidation):
		writeError(w, http.StatusBadRequest, errMissingData)
	case errors.Is(err, sync.ErrUnauthorized):
		writeError(w, http.StatusForbidden, errInvalidInitData)
	case errors.Is(err, sync.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, errTooFast)
	default:
		slog.Error("unexpected sync error", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}
