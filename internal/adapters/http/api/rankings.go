package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/revlens/revlens/internal/adapters/repository"
)

// defaultViewLimit applies when no limit query parameter is given.
const defaultViewLimit = 50

// RankingsHandler serves the six ranking views.
type RankingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetView handles GET /rankings/{view}?limit=N requests.
func (h *RankingsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view := strings.TrimPrefix(r.URL.Path, "/rankings/")
	if view == "" || strings.Contains(view, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	limit := defaultViewLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}

	entries, err := h.deps.TopView(r.Context(), view, limit)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownView):
			writeError(w, http.StatusNotFound, "unknown_view", err)
		case errors.Is(err, repository.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
