// Package repository holds the published rankings state and serves the
// read side. Rankings are batch-derived, so the store keeps whole immutable
// snapshots behind an atomic pointer: readers never block the writer and a
// snapshot observed by a reader never mutates underneath it.
package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/revlens/revlens/internal/domain/anomaly"
	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/pkg/metrics"
)

// Snapshot is one published aggregation result.
type Snapshot struct {
	Rankings   model.RankingSet
	ByReviewer map[string]model.ReviewerStats
	Anomalies  anomaly.Report
	BuiltAt    time.Time
}

// Store publishes and serves ranking snapshots.
type Store struct {
	snap atomic.Pointer[Snapshot]
}

// New constructs an empty store. Reads against an empty store return
// ErrNotReady until the first Publish.
func New() *Store {
	return &Store{}
}

// Publish swaps in a new snapshot built from the full qualifying stats
// slice, the ranking views, and the anomaly report.
func (s *Store) Publish(reviewers []model.ReviewerStats, set model.RankingSet, rep anomaly.Report) {
	byReviewer := make(map[string]model.ReviewerStats, len(reviewers))
	for _, r := range reviewers {
		byReviewer[r.ReviewerID] = r
	}
	s.snap.Store(&Snapshot{
		Rankings:   set,
		ByReviewer: byReviewer,
		Anomalies:  rep,
		BuiltAt:    time.Now(),
	})
	metrics.UpdateRankedReviewers(len(reviewers))
	metrics.UpdateRankingsLastBuiltUnix(float64(time.Now().Unix()))
}

// View returns up to limit entries of the named ranking view.
func (s *Store) View(ctx context.Context, name string, limit int) ([]model.ReviewerStats, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	view, ok := snap.Rankings.View(name)
	if !ok {
		return nil, ErrUnknownView
	}
	if len(view) > limit {
		view = view[:limit]
	}
	return view, nil
}

// Reviewer returns the stats snapshot for one reviewer id.
func (s *Store) Reviewer(ctx context.Context, reviewerID string) (model.ReviewerStats, error) {
	snap := s.snap.Load()
	if snap == nil {
		return model.ReviewerStats{}, ErrNotReady
	}
	stats, ok := snap.ByReviewer[reviewerID]
	if !ok {
		return model.ReviewerStats{}, ErrNotFound
	}
	return stats, nil
}

// Anomalies returns the anomaly report from the current snapshot.
func (s *Store) Anomalies(ctx context.Context) (anomaly.Report, error) {
	snap := s.snap.Load()
	if snap == nil {
		return anomaly.Report{}, ErrNotReady
	}
	return snap.Anomalies, nil
}

// Count returns the number of reviewers in the current snapshot.
func (s *Store) Count(ctx context.Context) int {
	snap := s.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.ByReviewer)
}

// BuiltAt returns when the current snapshot was published, or the zero
// time when nothing has been published yet.
func (s *Store) BuiltAt(ctx context.Context) time.Time {
	snap := s.snap.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.BuiltAt
}
