// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric kernels behind relevance
// propagation.
//
// The package provides:
//
//   - Dense, a row-major float64 matrix backed by one contiguous buffer.
//   - Element-wise kernels (Add, Scale, AddScaledInPlace) with a flat-slice
//     fast path for *Dense operands.
//   - Mul, the i→k→j product with zero skipping, optionally split across
//     row blocks (WithWorkers) without changing the result bit-for-bit.
//   - Central validators and sentinel errors shared by every kernel.
//
// Dense matrices cost O(r·c) memory; a square product costs O(n³) time.
// Callers sizing C×C relevance matrices should budget memory first
// (see Bytes).
package matrix
