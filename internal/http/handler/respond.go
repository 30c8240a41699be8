package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"jobpack/internal/auth"
	"jobpack/internal/export"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// writeServiceError answers with the gate refusal, or a generic 500 after
// logging anything that is not one.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	if ge, ok := export.AsGateError(err); ok {
		writeJSON(w, ge.Status, ge)
		return
	}
	log.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, export.CodeInternal, "Something went wrong. Please try again.")
}

func callerID(r *http.Request) *uint64 {
	// auth.Identify puts the id on the context only for valid tokens.
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		return &uid
	}
	return nil
}
