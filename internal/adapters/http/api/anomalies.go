package api

import (
	"errors"
	"net/http"

	"github.com/revlens/revlens/internal/adapters/repository"
)

// AnomaliesHandler serves the reviewer anomaly report.
type AnomaliesHandler struct {
	deps Dependencies
}

// NewAnomaliesHandler creates a new anomalies handler.
func NewAnomaliesHandler(deps Dependencies) *AnomaliesHandler {
	return &AnomaliesHandler{deps: deps}
}

// HandleGetAnomalies handles GET /anomalies requests.
func (h *AnomaliesHandler) HandleGetAnomalies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rep, err := h.deps.Anomalies(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotReady) {
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
