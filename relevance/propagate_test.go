// SPDX-License-Identifier: MIT

package relevance_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/relevance"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Universe {1,2,3} with a single edge 1→2.
func TestPropagate_SingleEdge(t *testing.T) {
	g := mustGraph(t, 3, [3]float32{1, 2, 1})
	p, err := relevance.Propagate(g, 3, relevance.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Equal(t, 3, p.MaxHops())
	require.Equal(t, 3, p.Universe())

	require.Equal(t, [][]float64{{0, 1, 0}, {0, 0, 0}, {0, 0, 0}}, rows(t, p.Hops[0]))
	// Walk[1] vanishes, so every later hop equals Walk[0].
	for h := 1; h <= 3; h++ {
		require.Equal(t, [][]float64{{0, 0.5, 0}, {0, 0, 0}, {0, 0, 0}}, rows(t, p.Hops[h]), "hop %d", h)
	}

	rk, err := p.Rank(0)
	require.NoError(t, err)
	require.Equal(t, consts(2), rk.Relevant(1))
	require.Empty(t, rk.Relevant(2))
	require.Empty(t, rk.Relevant(3))
}

func TestPropagate_DoublingRecurrence(t *testing.T) {
	g := mustGraph(t, 2, [3]float32{1, 2, 1}, [3]float32{2, 1, 1})
	p, err := relevance.Propagate(g, 2)
	require.NoError(t, err)

	// Walk[0] = [[0,.5],[.5,0]], Walk[1] = .25·I, Walk[2] = [[0,.125],[.125,0]].
	require.Equal(t, [][]float64{{0, 1}, {1, 0}}, rows(t, p.Hops[0]))
	require.Equal(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}}, rows(t, p.Hops[1]))
	require.Equal(t, [][]float64{{0.25, 0.75}, {0.75, 0.25}}, rows(t, p.Hops[2]))
}

func TestPropagate_LaterEdgeOverwrites(t *testing.T) {
	g := mustGraph(t, 2, [3]float32{1, 2, 1}, [3]float32{1, 2, 0.5})
	p, err := relevance.Propagate(g, 0)
	require.NoError(t, err)
	require.Len(t, p.Hops, 1)
	require.Equal(t, [][]float64{{0, 0.5}, {0, 0}}, rows(t, p.Hops[0]))
}

func TestPropagate_NonNegative(t *testing.T) {
	p, err := relevance.Propagate(denseGraph(t, 9), 3)
	require.NoError(t, err)
	for h, m := range p.Hops {
		for i, row := range rows(t, m) {
			for j, v := range row {
				require.GreaterOrEqual(t, v, 0.0, "hop %d cell (%d,%d)", h, i, j)
			}
		}
	}
}

func TestPropagate_WorkersBitIdentical(t *testing.T) {
	g := denseGraph(t, 11)
	serial, err := relevance.Propagate(g, 3)
	require.NoError(t, err)
	parallel, err := relevance.Propagate(g, 3, relevance.WithWorkers(4))
	require.NoError(t, err)
	for h := range serial.Hops {
		require.Equal(t, rows(t, serial.Hops[h]), rows(t, parallel.Hops[h]), "hop %d", h)
	}
}

func TestPropagate_Validation(t *testing.T) {
	_, err := relevance.Propagate(mustGraph(t, 2), -1)
	require.ErrorIs(t, err, relevance.ErrOptionViolation)

	_, err = relevance.Propagate(mustGraph(t, 2), 1, relevance.WithWorkers(0))
	require.ErrorIs(t, err, relevance.ErrOptionViolation)

	_, err = relevance.Propagate(mustGraph(t, 3, [3]float32{1, 4, 1}), 1)
	require.ErrorIs(t, err, kb.ErrConstantOutOfRange)

	_, err = relevance.Propagate(mustGraph(t, 3, [3]float32{1, 2, -1}), 1)
	require.ErrorIs(t, err, relevance.ErrInvalidWeight)

	_, err = relevance.Propagate(nil, 1)
	require.ErrorIs(t, err, relevance.ErrNilGraph)

	_, err = relevance.NewGraph(0)
	require.ErrorIs(t, err, relevance.ErrEmptyUniverse)
}

func TestPropagate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := relevance.Propagate(denseGraph(t, 4), 2, relevance.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPropagation_HopOutOfRange(t *testing.T) {
	p, err := relevance.Propagate(mustGraph(t, 2), 1)
	require.NoError(t, err)
	_, err = p.Hop(2)
	require.ErrorIs(t, err, relevance.ErrHopOutOfRange)
	_, err = p.Rank(-1)
	require.ErrorIs(t, err, relevance.ErrHopOutOfRange)
}

func TestFootprint(t *testing.T) {
	require.Equal(t, uint64(7*100*8), relevance.Footprint(10, 3))
}
