// SPDX-License-Identifier: MIT

package negsample

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/relevance"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Option configures a Sampler. An invalid Option is recorded and surfaced
// as ErrOptionViolation by NewSampler.
type Option func(*Options)

// Options holds Sampler tunables.
type Options struct {
	// Workers bounds how many relations are sampled concurrently.
	Workers int

	// Logger receives one line per relation; zap.NewNop() by default.
	Logger *zap.Logger

	err error
}

// DefaultOptions returns a single worker and a no-op logger.
func DefaultOptions() Options {
	return Options{Workers: 1, Logger: zap.NewNop()}
}

// WithWorkers samples up to n relations at once. n < 1 is a violation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("WithWorkers(%d): %w", n, ErrOptionViolation)
			return
		}
		o.Workers = n
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

// Sampler runs one Policy over every relation of a KB.
type Sampler struct {
	policy  Policy
	ranking *relevance.Ranking
	opts    Options
}

// NewSampler validates policy and options.
//
// Errors:
//   - ErrNilRanking, ErrInvalidPolicy, ErrOptionViolation.
func NewSampler(policy Policy, rk *relevance.Ranking, opts ...Option) (*Sampler, error) {
	if rk == nil {
		return nil, ErrNilRanking
	}
	if policy == nil {
		return nil, fmt.Errorf("NewSampler: nil policy: %w", ErrInvalidPolicy)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Sampler{policy: policy, ranking: rk, opts: o}, nil
}

// Policy returns the sampler's policy.
func (s *Sampler) Policy() Policy { return s.policy }

// Run samples every relation and returns one RecordSet per relation, by
// index. Relations are independent and are spread over the configured
// workers; the result does not depend on the worker count.
//
// Errors:
//   - kb.ErrConstantOutOfRange when a relation references a constant outside
//     the ranking's universe; nothing is sampled in that case.
//   - ctx.Err() when cancelled before a relation starts.
func (s *Sampler) Run(ctx context.Context, relations []*kb.Relation) ([]*RecordSet, error) {
	universe := s.ranking.Universe()
	for _, rel := range relations {
		if err := checkUniverse(rel, universe); err != nil {
			return nil, err
		}
	}

	out := make([]*RecordSet, len(relations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, rel := range relations {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("Sampler.Run: relation %q: %w", rel.Name(), err)
			}
			start := time.Now()
			out[i] = s.policy.Sample(rel, s.ranking)
			s.opts.Logger.Info("relation sampled",
				zap.String("relation", rel.Name()),
				zap.String("policy", s.policy.Name()),
				zap.Int("records", rel.Len()),
				zap.Int("negatives", out[i].Len()),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// checkUniverse rejects constants outside [1, universe].
func checkUniverse(rel *kb.Relation, universe int) error {
	if hi := rel.MaxConstant(); int(hi) > universe {
		return fmt.Errorf("relation %q constant %d outside universe of %d: %w",
			rel.Name(), hi, universe, kb.ErrConstantOutOfRange)
	}

	return nil
}
