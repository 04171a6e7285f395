package worker

import (
	"time"

	"github.com/revlens/revlens/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithMinReviews sets the minimum-review-count threshold for rankings.
func WithMinReviews(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.minReviews = n
		}
	}
}

// WithTopK caps the length of each ranking view.
func WithTopK(k int) Option {
	return func(w *Worker) {
		if k > 0 {
			w.topK = k
		}
	}
}

// WithRebuildInterval sets how often dirty rankings are re-derived.
func WithRebuildInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.rebuildInterval = d
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}
