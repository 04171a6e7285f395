// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/revlens/revlens/internal/domain/anomaly"
	"github.com/revlens/revlens/internal/domain/model"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Enqueue pushes a submission record for async ingestion. accepted is
	// false on backpressure; duplicate is true when every review in the
	// record was already seen.
	Enqueue(ctx context.Context, sub model.Submission) (accepted, duplicate bool)

	// Read operations expose the published rankings.
	TopView(ctx context.Context, name string, limit int) ([]model.ReviewerStats, error)
	Reviewer(ctx context.Context, reviewerID string) (model.ReviewerStats, error)
	Anomalies(ctx context.Context) (anomaly.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	submissionsHandler *SubmissionsHandler
	rankingsHandler    *RankingsHandler
	reviewersHandler   *ReviewersHandler
	anomaliesHandler   *AnomaliesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		submissionsHandler: NewSubmissionsHandler(deps),
		rankingsHandler:    NewRankingsHandler(deps, maxLimit),
		reviewersHandler:   NewReviewersHandler(deps),
		anomaliesHandler:   NewAnomaliesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/rankings/", MetricsMiddleware(s.rankingsHandler.HandleGetView, "rankings"))
	mux.HandleFunc("/reviewers/", MetricsMiddleware(s.reviewersHandler.HandleGetReviewer, "reviewers"))
	mux.HandleFunc("/anomalies", MetricsMiddleware(s.anomaliesHandler.HandleGetAnomalies, "anomalies"))
	mux.Handle("/metrics", MetricsHandler())
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
