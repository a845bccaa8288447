// SPDX-License-Identifier: MIT
// Package matrix provides operations on any Matrix implementation:
// element-wise addition, scaled accumulation, scalar scaling and matrix
// multiplication. All functions perform strict fail-fast validation and
// return clear errors on dimension mismatches.
//
// Notes:
//   - Every kernel has a *Dense fast path over the flat buffer and a generic
//     At/Set fallback with a fixed i→j order.
//   - Kernels never mutate inputs, except AddScaledInPlace which mutates dst only.

package matrix

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ZeroSum is the initial value for dot-product accumulation.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opAdd       = "Add"
	opAddScaled = "AddScaledInPlace"
	opMul       = "Mul"
	opScale     = "Scale"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
// Implementation:
//   - Stage 1: Validate both operands are non-nil and have identical shapes.
//   - Stage 2: If both are *Dense, run a single flat loop; otherwise fall back to i→j.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	// Fast path: *Dense with *Dense → single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range res.data {
				res.data[idx] = da.data[idx] + db.data[idx]
			}

			return res, nil
		}
	}

	var av, bv float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			res.data[i*cols+j] = av + bv
		}
	}

	return res, nil
}

// Scale returns α·m as a fresh Dense.
// alpha = 0 yields an explicit zero matrix with the same shape.
//
// Errors:
//   - ErrNilMatrix (from ValidateNotNil).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}

	if dm, ok := m.(*Dense); ok {
		for idx, v := range dm.data {
			res.data[idx] = v * alpha
		}

		return res, nil
	}

	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScale, err)
			}
			res.data[i*cols+j] = v * alpha
		}
	}

	return res, nil
}

// AddScaledInPlace accumulates dst += α·src.
// MAIN DESCRIPTION:
//   - The running-sum primitive for composite relevance: one pass, no allocation.
//
// Behavior highlights:
//   - dst is the only value mutated; src may alias dst (dst becomes (1+α)·dst).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func AddScaledInPlace(dst *Dense, src Matrix, alpha float64) error {
	if dst == nil {
		return matrixErrorf(opAddScaled, ErrNilMatrix)
	}
	if err := ValidateBinarySameShape(dst, src); err != nil {
		return matrixErrorf(opAddScaled, err)
	}

	if ds, ok := src.(*Dense); ok {
		for idx, v := range ds.data {
			dst.data[idx] += alpha * v
		}

		return nil
	}

	var (
		v   float64
		err error
	)
	for i := 0; i < dst.r; i++ {
		for j := 0; j < dst.c; j++ {
			if v, err = src.At(i, j); err != nil {
				return matrixErrorf(opAddScaled, err)
			}
			dst.data[i*dst.c+j] += alpha * v
		}
	}

	return nil
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides and skip
//     zeros; rows are split into WithWorkers contiguous blocks, each owned by
//     one goroutine.
//   - Stage 3: Otherwise use i→j→k with a fixed order and zero-skip on A[i,k].
//
// Behavior highlights:
//   - Each output row is accumulated in the same k order regardless of the
//     worker count, so results are reproducible bit-for-bit.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c). Skipping zero A[i,k] makes sparse
//     relevance rows cheap.
func Mul(a, b Matrix, opts ...Option) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			o := gatherOptions(opts...)
			mulDenseParallel(res, da, db, o.workers)

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k).
	var av, bv, current float64
	for i := 0; i < aRows; i++ {
		for j := 0; j < bCols; j++ {
			current = ZeroSum
			for k := 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// mulDenseParallel splits the rows of res into at most `workers` contiguous
// blocks and runs mulDenseRows on each. Blocks write disjoint rows.
func mulDenseParallel(res, da, db *Dense, workers int) {
	if workers > da.r {
		workers = da.r
	}
	if workers <= 1 {
		mulDenseRows(res, da, db, 0, da.r)
		return
	}

	block := (da.r + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < da.r; lo += block {
		hi := min(lo+block, da.r)
		g.Go(func() error {
			mulDenseRows(res, da, db, lo, hi)
			return nil
		})
	}
	_ = g.Wait() // row kernels never fail
}

// mulDenseRows computes rows [lo, hi) of res = da × db.
// da.data layout: i*aCols + k; db.data layout: k*bCols + j.
func mulDenseRows(res, da, db *Dense, lo, hi int) {
	aCols, bCols := da.c, db.c
	var av float64
	for i := lo; i < hi; i++ {
		rowA := da.data[i*aCols : (i+1)*aCols]
		rowR := res.data[i*bCols : (i+1)*bCols]
		for k, v := range rowA {
			av = v
			if av == 0 {
				continue
			}
			rowB := db.data[k*bCols : (k+1)*bCols]
			for j, bv := range rowB {
				rowR[j] += av * bv
			}
		}
	}
}
