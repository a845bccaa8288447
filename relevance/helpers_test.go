// SPDX-License-Identifier: MIT

package relevance_test

import (
	"testing"

	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/matrix"
	"github.com/katalvlaran/negkb/relevance"
	"github.com/stretchr/testify/require"
)

// mustGraph builds a graph over universe constants from (from, to, weight) triples.
func mustGraph(t *testing.T, universe int, edges ...[3]float32) *relevance.Graph {
	t.Helper()
	g, err := relevance.NewGraph(universe)
	require.NoError(t, err)
	for _, e := range edges {
		g.AddEdge(kb.Constant(e[0]), kb.Constant(e[1]), e[2])
	}

	return g
}

// denseGraph returns a deterministic graph where roughly a third of the
// pairs carry a weight in {0.25, 0.5, 0.75}.
func denseGraph(t *testing.T, universe int) *relevance.Graph {
	t.Helper()
	g, err := relevance.NewGraph(universe)
	require.NoError(t, err)
	for i := 1; i <= universe; i++ {
		for j := 1; j <= universe; j++ {
			if w := (i + 2*j) % 3; w != 0 {
				g.AddEdge(kb.Constant(i), kb.Constant(j), float32(w)*0.25+0.25*float32((i+j)%2))
			}
		}
	}

	return g
}

// rows copies every row of m.
func rows(t *testing.T, m *matrix.Dense) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		row, err := m.RowView(i)
		require.NoError(t, err)
		out[i] = append([]float64(nil), row...)
	}

	return out
}

func consts(vals ...int) []kb.Constant {
	out := make([]kb.Constant, len(vals))
	for i, v := range vals {
		out[i] = kb.Constant(v)
	}

	return out
}
