// SPDX-License-Identifier: MIT

package kb

import "errors"

// Sentinel errors for KB model and store operations.
// All are input-validation failures: fatal for a run, never retried.
var (
	// ErrInvalidArity indicates a relation declared with arity < 1.
	ErrInvalidArity = errors.New("kb: arity must be >= 1")

	// ErrArityMismatch indicates a record whose length differs from its relation's arity.
	ErrArityMismatch = errors.New("kb: record arity mismatch")

	// ErrConstantOutOfRange indicates a constant outside [1, C].
	ErrConstantOutOfRange = errors.New("kb: constant out of range")

	// ErrMalformed indicates unparsable metadata or a file with unexpected trailing bytes.
	ErrMalformed = errors.New("kb: malformed input")

	// ErrTruncated indicates a binary file shorter than its metadata promises.
	ErrTruncated = errors.New("kb: truncated input")

	// ErrWeightsMismatch indicates a weight vector not parallel to its records.
	ErrWeightsMismatch = errors.New("kb: weights do not match records")
)
