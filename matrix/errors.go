// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation
// tag) and tests match them via errors.Is. No kernel panics on
// user-triggered conditions; panics are reserved for invalid Option values.

package matrix

import "errors"

// Every message is prefixed with "matrix: ..." so it greps cleanly in logs.
// Wrap with fmt.Errorf("ctx: %w", ErrX) at the boundary; errors.Is still matches.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. Add with
	// different shapes or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNaNInf signals a NaN or ±Inf value where the numeric policy requires
	// finite values.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrDataLength indicates that a backing slice does not hold rows*cols values.
	ErrDataLength = errors.New("matrix: data length does not match shape")
)
