package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"jobpack/internal/export"
	"jobpack/internal/logger"
)

type ExportHandler struct {
	Svc    *export.Service
	Logger *slog.Logger
}

// Export serves POST|GET /jobs/{id}/export?format=standard|compact&output=pdf|xlsx.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	q := r.URL.Query()
	log := logger.FromContext(r.Context(), h.Logger).With("job_id", jobID)

	art, err := h.Svc.Export(r.Context(), export.Request{
		CallerID: callerID(r),
		JobID:    jobID,
		Format:   q.Get("format"),
		Output:   q.Get("output"),
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Body)
}

// Estimate serves GET /jobs/{id}/estimate.
func (h *ExportHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.Logger)
	est, err := h.Svc.Estimate(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// Reconciliation serves GET /jobs/{id}/materials/reconciliation.
func (h *ExportHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.Logger)
	res, err := h.Svc.Reconciliation(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
