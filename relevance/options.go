// SPDX-License-Identifier: MIT

package relevance

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Option configures Propagate and Rank via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation when the
// operation runs.
type Option func(*Options)

// Options holds the tunables shared by Propagate and Rank.
type Options struct {
	// Ctx allows cancellation between hops and between ranked rows.
	Ctx context.Context

	// Logger receives one line per hop; zap.NewNop() by default.
	Logger *zap.Logger

	// Workers bounds the goroutines used by matrix multiplication and
	// ranking. 1 keeps everything on the calling goroutine.
	Workers int

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with a background context, a no-op logger
// and a single worker.
func DefaultOptions() Options {
	return Options{
		Ctx:     context.Background(),
		Logger:  zap.NewNop(),
		Workers: 1,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// WithWorkers bounds parallelism. n < 1 records ErrOptionViolation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("WithWorkers(%d): %w", n, ErrOptionViolation)
			return
		}
		o.Workers = n
	}
}

func gatherOptions(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o, o.err
}
