// Package aggregate implements the streaming reviewer-statistics
// aggregation: submission records are ingested one at a time, per-reviewer
// observations accumulate in memory, and a finalize step derives immutable
// statistics plus six independently sorted top-K ranking views.
//
// An Aggregator is owned exclusively by one run and is not safe for
// concurrent mutation; running two aggregations concurrently requires two
// instances.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/internal/domain/numparse"
	"github.com/revlens/revlens/internal/domain/stats"
	"github.com/revlens/revlens/pkg/logger"
)

// Default aggregation configuration constants.
const (
	defaultTopK       = 200
	defaultMinReviews = 3

	progressLogInterval = 10_000 // records between progress log lines
)

// Source yields submission records in input order. Implementations return
// io.EOF once the stream is drained; any other error is fatal for the run.
type Source interface {
	Next(ctx context.Context) (model.Submission, error)
}

// accumulator collects one reviewer's observations. Mutated only by append
// while ingestion is running; discarded after statistics are derived.
type accumulator struct {
	reviewerID    string
	profileURL    string
	reviews       int
	ratings       []float64
	confidences   []float64
	textWords     []float64
	questionWords []float64
	ethicsFlags   int
}

// Aggregator accumulates per-reviewer observations and derives ranked
// statistics. The byReviewer map is keyed by reviewer id; order preserves
// first-seen order so that exact ties in the ranking views resolve in favor
// of earlier-inserted reviewers.
type Aggregator struct {
	byReviewer map[string]*accumulator
	order      []*accumulator

	topK int

	records        int
	skippedReviews int

	logger logger.Logger
}

// New constructs an empty Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		byReviewer: make(map[string]*accumulator),
		topK:       defaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ingest folds one submission record into the accumulator map. Reviews
// without a reviewer id are skipped silently; malformed rating or
// confidence values simply contribute no observation for that field. No
// I/O happens here.
func (a *Aggregator) Ingest(sub model.Submission) {
	a.records++
	for i := range sub.Reviews {
		rev := &sub.Reviews[i]
		if rev.ReviewerID == "" {
			a.skippedReviews++
			continue
		}

		acc, ok := a.byReviewer[rev.ReviewerID]
		if !ok {
			acc = &accumulator{reviewerID: rev.ReviewerID}
			a.byReviewer[rev.ReviewerID] = acc
			a.order = append(a.order, acc)
		}
		if acc.profileURL == "" {
			acc.profileURL = rev.ReviewerProfileURL
		}

		acc.reviews++
		if rating, ok := numparse.Extract(rev.Rating); ok {
			acc.ratings = append(acc.ratings, rating)
		}
		if confidence, ok := numparse.Extract(rev.Confidence); ok {
			acc.confidences = append(acc.confidences, confidence)
		}
		acc.textWords = append(acc.textWords, float64(rev.TotalTextWords))
		acc.questionWords = append(acc.questionWords, float64(rev.QuestionsWords))
		if rev.HasEthicsFlag {
			acc.ethicsFlags++
		}
	}
}

// Stats derives the immutable per-reviewer snapshots in first-seen order.
// Reviewers with zero ratings are excluded entirely, as are reviewers below
// the minReviews threshold. minReviews values below one fall back to the
// default of 3.
func (a *Aggregator) Stats(minReviews int) []model.ReviewerStats {
	if minReviews < 1 {
		minReviews = defaultMinReviews
	}

	out := make([]model.ReviewerStats, 0, len(a.order))
	for _, acc := range a.order {
		if len(acc.ratings) == 0 || acc.reviews < minReviews {
			continue
		}

		s := model.ReviewerStats{
			ReviewerID:       acc.reviewerID,
			ProfileURL:       acc.profileURL,
			Reviews:          acc.reviews,
			AvgRating:        stats.Mean(acc.ratings),
			MedianRating:     stats.Median(acc.ratings),
			MinRating:        stats.Min(acc.ratings),
			MaxRating:        stats.Max(acc.ratings),
			AvgConfidence:    stats.Mean(acc.confidences),
			AvgTextWords:     stats.Mean(acc.textWords),
			AvgQuestionWords: stats.Mean(acc.questionWords),
			EthicsFlags:      acc.ethicsFlags,
		}
		if len(acc.ratings) >= 2 {
			std := stats.PopulationStd(acc.ratings)
			s.RatingStd = &std
		}
		out = append(out, s)
	}
	return out
}

// Finalize derives statistics for every qualifying reviewer and produces
// the six sorted views, each truncated to the configured top-K. Finalize is
// pure with respect to accumulated state: calling it twice yields identical
// contents and ordering.
func (a *Aggregator) Finalize(minReviews int) model.RankingSet {
	return BuildRankings(a.Stats(minReviews), a.topK)
}

// Run drives ingestion across the entire source, then finalizes. Per-record
// failures are handled inside the source (skipped, not fatal); only a
// broken underlying stream or context cancellation aborts the run. The
// accumulated state remains a valid prefix on cancellation.
func (a *Aggregator) Run(ctx context.Context, src Source, minReviews int) (model.RankingSet, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.RankingSet{}, fmt.Errorf("aggregation cancelled: %w", err)
		}
		sub, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.RankingSet{}, fmt.Errorf("read source: %w", err)
		}
		a.Ingest(sub)

		if a.logger != nil && a.records%progressLogInterval == 0 {
			a.logger.Debug(ctx, "aggregation progress",
				logger.Int("records", a.records),
				logger.Int("reviewers", len(a.byReviewer)),
			)
		}
	}
	return a.Finalize(minReviews), nil
}

// Records returns the number of submission records ingested so far.
func (a *Aggregator) Records() int { return a.records }

// Reviewers returns the number of distinct reviewers seen so far.
func (a *Aggregator) Reviewers() int { return len(a.byReviewer) }

// SkippedReviews returns the number of reviews dropped for lacking a
// reviewer id.
func (a *Aggregator) SkippedReviews() int { return a.skippedReviews }
