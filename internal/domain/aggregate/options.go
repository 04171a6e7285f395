package aggregate

import "github.com/revlens/revlens/pkg/logger"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithTopK caps the length of each ranking view.
func WithTopK(k int) Option {
	return func(a *Aggregator) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithLogger enables progress logging during long runs.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}
