// Package source reads submission records from a line-delimited JSON
// stream. A line that cannot be decoded is skipped and counted, never
// fatal; the only fatal conditions are an unopenable source and a broken
// underlying reader.
package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/revlens/revlens/internal/domain/model"
	"github.com/revlens/revlens/pkg/logger"
	"github.com/revlens/revlens/pkg/metrics"
)

// Scanner buffer sizes. Review dumps carry full review text, so single
// lines can run into the megabytes.
const (
	initialBufSize = 64 * 1024
	maxLineSize    = 16 * 1024 * 1024
)

// Reader streams model.Submission values off an NDJSON input.
type Reader struct {
	closer  io.Closer
	scanner *bufio.Scanner

	processed int
	skipped   int

	logger logger.Logger
}

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithLogger attaches a logger for skip diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// Open opens the dataset file at path. A missing or unreadable file is the
// one fatal condition for a whole run; the returned error wraps
// ErrSourceUnavailable so callers can test for it with errors.Is.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	r := New(f, opts...)
	r.closer = f
	return r, nil
}

// New wraps an already-open stream. Useful for tests and for piped input.
func New(in io.Reader, opts ...Option) *Reader {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, initialBufSize), maxLineSize)
	r := &Reader{scanner: sc}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next decodable submission record, skipping blank and
// malformed lines. Returns io.EOF once the stream is drained.
func (r *Reader) Next(ctx context.Context) (model.Submission, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var sub model.Submission
		if err := json.Unmarshal(line, &sub); err != nil {
			r.skipped++
			metrics.RecordRecordSkipped()
			if r.logger != nil {
				r.logger.Debug(ctx, "skipping malformed record",
					logger.Int("line_bytes", len(line)),
					logger.Error(err),
				)
			}
			continue
		}

		r.processed++
		metrics.RecordRecordProcessed()
		return sub, nil
	}

	if err := r.scanner.Err(); err != nil {
		return model.Submission{}, fmt.Errorf("scan source: %w", err)
	}
	return model.Submission{}, io.EOF
}

// Processed returns the number of records successfully decoded so far.
func (r *Reader) Processed() int { return r.processed }

// Skipped returns the number of malformed lines dropped so far.
func (r *Reader) Skipped() int { return r.skipped }

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	if err := r.closer.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}
