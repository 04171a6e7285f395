// Package app provides the core service that implements the dependencies
// required by the HTTP API: queue-fed sequential aggregation, rankings
// publication, and the read side.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	eventqueue "github.com/revlens/revlens/internal/adapters/mq/queue"
	"github.com/revlens/revlens/internal/adapters/mq/worker"
	"github.com/revlens/revlens/internal/adapters/repository"
	"github.com/revlens/revlens/internal/adapters/source"
	"github.com/revlens/revlens/internal/domain/aggregate"
	"github.com/revlens/revlens/internal/domain/anomaly"
	"github.com/revlens/revlens/internal/domain/dedupe"
	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/pkg/logger"
	"github.com/revlens/revlens/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 100_000
	defaultDedupeSize      = 500_000
	defaultMinReviews      = 3
	defaultTopK            = 200
	defaultRebuildInterval = 2 * time.Second

	enqueueRetryDelay = 5 * time.Millisecond
)

// Service wires the ingest pipeline and the rankings read side.
type Service struct {
	mu sync.Mutex

	store   *repository.Store
	deduper dedupe.Deduper
	queue   *eventqueue.InMemoryQueue
	worker  *worker.Worker

	queueSize       int
	dedupeSize      int
	minReviews      int
	topK            int
	rebuildInterval time.Duration

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize bounds the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the review-id dedupe set.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMinReviews sets the minimum-review-count threshold for rankings.
func WithMinReviews(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minReviews = n
		}
	}
}

// WithTopK caps the length of each ranking view.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithRebuildInterval sets how often dirty rankings are re-derived.
func WithRebuildInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.rebuildInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:       defaultQueueSize,
		dedupeSize:      defaultDedupeSize,
		minReviews:      defaultMinReviews,
		topK:            defaultTopK,
		rebuildInterval: defaultRebuildInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes components and launches the drain worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.store = repository.New()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)

	agg := aggregate.New(
		aggregate.WithTopK(s.topK),
		aggregate.WithLogger(s.logger),
	)
	s.worker = worker.New(s.queue, agg, s.store,
		worker.WithMinReviews(s.minReviews),
		worker.WithTopK(s.topK),
		worker.WithRebuildInterval(s.rebuildInterval),
		worker.WithLogger(s.logger.Named("worker")),
	)
	go s.worker.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "review analytics service started",
		logger.Int("queue_size", s.queueSize),
		logger.Int("min_reviews", s.minReviews),
		logger.Int("top_k", s.topK),
	)
	return nil
}

// Stop drains the pipeline and shuts the worker down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()

	// Closing the queue lets the worker finish queued records before the
	// final rebuild.
	_ = s.queue.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "worker shutdown failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "review analytics service stopped")
}

// Enqueue submits one submission record for ingestion. Reviews whose id was
// already seen are stripped; when every review is a duplicate the record is
// acknowledged as one. Returns accepted=false on backpressure.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) (accepted, duplicate bool) {
	fresh := make([]model.Review, 0, len(sub.Reviews))
	var recorded []string
	for _, rev := range sub.Reviews {
		if rev.ReviewID != "" {
			if s.deduper.SeenAndRecord(ctx, rev.ReviewID) {
				metrics.RecordReviewDuplicate()
				continue
			}
			recorded = append(recorded, rev.ReviewID)
		}
		fresh = append(fresh, rev)
	}

	if len(fresh) == 0 && len(sub.Reviews) > 0 {
		return true, true
	}

	sub.Reviews = fresh
	if !s.queue.Enqueue(ctx, sub) {
		// Roll back so a retry is not treated as a duplicate.
		for _, id := range recorded {
			s.deduper.Unrecord(ctx, id)
		}
		return false, false
	}
	return true, false
}

// LoadFile streams the dataset at path into the ingest pipeline. A missing
// or unreadable file is fatal; malformed lines are skipped by the source.
// Returns the number of records handed to the pipeline and the number of
// malformed lines skipped.
func (s *Service) LoadFile(ctx context.Context, path string) (processed, skipped int, err error) {
	rd, err := source.Open(path, source.WithLogger(s.logger.Named("source")))
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := rd.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	s.logger.Info(ctx, "loading dataset", logger.String("path", path))
	for {
		sub, rerr := rd.Next(ctx)
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return rd.Processed(), rd.Skipped(), fmt.Errorf("load dataset: %w", rerr)
		}

		// Retry on backpressure; the batch load has nowhere else to put
		// the record.
		for {
			accepted, _ := s.Enqueue(ctx, sub)
			if accepted {
				break
			}
			select {
			case <-ctx.Done():
				return rd.Processed(), rd.Skipped(), fmt.Errorf("load dataset: %w", ctx.Err())
			case <-time.After(enqueueRetryDelay):
			}
		}
	}

	s.logger.Info(ctx, "dataset loaded",
		logger.Int("records", rd.Processed()),
		logger.Int("skipped", rd.Skipped()),
	)
	return rd.Processed(), rd.Skipped(), nil
}

// TopView returns up to limit entries of the named ranking view.
func (s *Service) TopView(ctx context.Context, name string, limit int) ([]model.ReviewerStats, error) {
	return s.store.View(ctx, name, limit)
}

// Reviewer returns the stats snapshot for one reviewer.
func (s *Service) Reviewer(ctx context.Context, reviewerID string) (model.ReviewerStats, error) {
	return s.store.Reviewer(ctx, reviewerID)
}

// Anomalies returns the anomaly report from the current snapshot.
func (s *Service) Anomalies(ctx context.Context) (anomaly.Report, error) {
	return s.store.Anomalies(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"queue_size":  s.queueSize,
		"min_reviews": s.minReviews,
		"top_k":       s.topK,
	}
	if s.started {
		stats["queue_length"] = s.queue.Len(ctx)
		stats["ranked_reviewers"] = s.store.Count(ctx)
		stats["deduped_reviews"] = s.deduper.Size()
		if builtAt := s.store.BuiltAt(ctx); !builtAt.IsZero() {
			stats["last_built"] = builtAt.UTC().Format(time.RFC3339)
		}
	}
	return stats
}
