// Package worker drains the ingest queue into the aggregator and
// periodically publishes rebuilt rankings.
//
// Exactly one worker owns the aggregator: ingestion must stay strictly
// sequential because accumulators are mutated without locks. Running the
// rebuild inside the same goroutine keeps finalize reads consistent with
// ingest writes for free.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/revlens/revlens/internal/adapters/mq/queue"
	"github.com/revlens/revlens/internal/domain/aggregate"
	"github.com/revlens/revlens/internal/domain/anomaly"
	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/pkg/logger"
	"github.com/revlens/revlens/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultRebuildInterval = 2 * time.Second
	defaultTopK            = 200
	defaultMinReviews      = 3
)

// Queue defines how the worker receives records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Record
}

// Publisher receives rebuilt rankings.
type Publisher interface {
	Publish(reviewers []model.ReviewerStats, set model.RankingSet, rep anomaly.Report)
}

// Worker is the single consumer of the ingest queue.
type Worker struct {
	queue     Queue
	agg       *aggregate.Aggregator
	publisher Publisher

	minReviews      int
	topK            int
	rebuildInterval time.Duration

	lastBuilt int // record count at the last publish

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates the drain worker.
func New(q Queue, agg *aggregate.Aggregator, pub Publisher, opts ...Option) *Worker {
	w := &Worker{
		queue:           q,
		agg:             agg,
		publisher:       pub,
		minReviews:      defaultMinReviews,
		topK:            defaultTopK,
		rebuildInterval: defaultRebuildInterval,
		lastBuilt:       -1, // force an initial publish even on empty input
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		logger:          logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run ingests records and rebuilds rankings until the context is canceled,
// Shutdown is called, or the queue closes. A final rebuild runs on the way
// out so short-lived batch loads still publish.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	defer w.rebuild(ctx)

	records := w.queue.Dequeue(ctx)
	ticker := time.NewTicker(w.rebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			w.agg.Ingest(rec)
			metrics.UpdateDistinctReviewers(w.agg.Reviewers())
		case <-ticker.C:
			w.rebuild(ctx)
		}
	}
}

// Shutdown stops the worker and waits for the final rebuild.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
		// already shutting down
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "worker shutdown timed out")
		return fmt.Errorf("worker shutdown: %w", ctx.Err())
	}
}

// rebuild derives and publishes rankings when new records arrived since the
// last publish.
func (w *Worker) rebuild(ctx context.Context) {
	if w.agg.Records() == w.lastBuilt {
		return
	}
	start := time.Now()

	stats := w.agg.Stats(w.minReviews)
	set := aggregate.BuildRankings(stats, w.topK)
	rep := anomaly.Detect(stats)
	w.publisher.Publish(stats, set, rep)
	w.lastBuilt = w.agg.Records()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordRankingsBuildDuration(ms)
	metrics.IncrementRankingsBuildCount()
	w.logger.Debug(ctx, "rankings rebuilt",
		logger.Int("records", w.agg.Records()),
		logger.Int("ranked_reviewers", len(stats)),
		logger.Float64("duration_ms", ms),
	)
}
