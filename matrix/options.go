// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for constructors and kernels.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that applies defaults first.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation in Set.
	DefaultValidateNaNInf = true

	// DefaultWorkers is the number of row blocks Mul computes concurrently.
	// One worker reproduces the single-threaded reference loop exactly.
	DefaultWorkers = 1
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicWorkersInvalid = "matrix: WithWorkers: workers must be >= 1"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
	workers        int  // DefaultWorkers
}

// WithNoValidateNaNInf disables the finite-only guard on new matrices.
// Use only for controlled ingestion where values are known to be finite.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithWorkers sets how many row blocks Mul computes concurrently.
// Implementation:
//   - Stage 1: validate n ≥ 1 (panic otherwise).
//   - Stage 2: return a setter that writes n into Options.
//
// Behavior highlights:
//   - Every output row is still accumulated in the same k→j order, so the
//     product is bit-identical for any worker count.
//
// AI-Hints:
//   - runtime.GOMAXPROCS(0) is a sensible upper bound; more blocks than rows
//     are clamped inside Mul.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// NewMatrixOptions resolves user options over the defaults.
// Exposed for callers that want to inspect the effective policy.
func NewMatrixOptions(opts ...Option) Options {
	return gatherOptions(opts...)
}

// ValidateNaNInf reports whether the finite-only guard is enabled.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

// Workers reports the configured Mul worker count.
func (o Options) Workers() int { return o.workers }

func defaultOptions() Options {
	return Options{
		validateNaNInf: DefaultValidateNaNInf,
		workers:        DefaultWorkers,
	}
}

// gatherOptions applies defaults first, then user setters in order
// (last write wins).
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, opt := range user {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
