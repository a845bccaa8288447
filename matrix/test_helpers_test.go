// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/negkb/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing kernels onto the generic At/Set fallback path.
type hide struct{ matrix.Matrix }

// MustDense builds an r×c *Dense from row-major values or fails the test.
func MustDense(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	if len(vals) == 0 {
		m, err := matrix.NewDense(r, c)
		require.NoError(t, err)
		return m
	}
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// cells flattens any Matrix into row-major order for comparisons.
func cells(t *testing.T, m matrix.Matrix) []float64 {
	t.Helper()
	out := make([]float64, 0, m.Rows()*m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			require.NoError(t, err)
			out = append(out, v)
		}
	}

	return out
}

// ramp returns an n×n matrix with a deterministic sparse pattern:
// cell (i,j) = (i+2j) mod 5, so roughly one in five cells is zero.
func ramp(t *testing.T, n int) *matrix.Dense {
	t.Helper()
	vals := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vals[i*n+j] = float64((i + 2*j) % 5)
		}
	}

	return MustDense(t, n, n, vals...)
}
