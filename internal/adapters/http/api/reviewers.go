package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/revlens/revlens/internal/adapters/repository"
)

// ReviewersHandler serves per-reviewer statistics.
type ReviewersHandler struct {
	deps Dependencies
}

// NewReviewersHandler creates a new reviewers handler.
func NewReviewersHandler(deps Dependencies) *ReviewersHandler {
	return &ReviewersHandler{deps: deps}
}

// HandleGetReviewer handles GET /reviewers/{reviewer_id} requests.
func (h *ReviewersHandler) HandleGetReviewer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	reviewerID := strings.TrimPrefix(r.URL.Path, "/reviewers/")
	if reviewerID == "" || strings.Contains(reviewerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	stats, err := h.deps.Reviewer(r.Context(), reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, repository.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
