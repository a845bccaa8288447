// SPDX-License-Identifier: MIT

package negsample

import (
	"slices"
	"testing"

	"github.com/katalvlaran/negkb/kb"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin_SharedCounter(t *testing.T) {
	var rr roundRobin
	a := []kb.Constant{10, 11, 12}
	b := []kb.Constant{20, 21}

	require.Equal(t, []kb.Constant{10, 11}, slices.Collect(rr.cycle(a, 2)))
	require.Equal(t, 2, rr.i)
	// b continues at i=2: 2%2=0, 3%2=1, 4%2=0.
	require.Equal(t, []kb.Constant{20, 21, 20}, slices.Collect(rr.cycle(b, 3)))
	require.Equal(t, 5, rr.i)
}

func TestRoundRobin_EarlyStopAdvancesOnce(t *testing.T) {
	var rr roundRobin
	for c := range rr.cycle([]kb.Constant{1, 2, 3}, 3) {
		require.Equal(t, kb.Constant(1), c)
		break
	}
	require.Equal(t, 1, rr.i)
}

func TestRoundRobin_EmptyList(t *testing.T) {
	rr := roundRobin{i: 4}
	require.Empty(t, slices.Collect(rr.cycle(nil, 10)))
	require.Equal(t, 4, rr.i)
	require.Empty(t, slices.Collect(rr.cycle([]kb.Constant{1}, 0)))
}

func TestSlots(t *testing.T) {
	require.Equal(t, []slot{{0, 0}}, slots(1))
	require.Equal(t, []slot{{0, 1}, {1, 0}}, slots(2))
	require.Equal(t, []slot{{0, 1}, {1, 2}, {2, 0}}, slots(3))
}

func TestAcceptor_Limit(t *testing.T) {
	pos, err := kb.NewRelation("r", 2, []kb.Record{{1, 2}})
	require.NoError(t, err)
	acc := newAcceptor(pos)

	n := acc.take(kb.Record{1, 2}, 1, ordered([]kb.Constant{2, 3, 1, 4}), 2)
	require.Equal(t, 2, n)
	require.Equal(t, []kb.Record{{1, 3}, {1, 1}}, acc.neg.Records())

	require.Zero(t, acc.take(kb.Record{1, 2}, 1, ordered([]kb.Constant{3}), 1))
	require.Zero(t, acc.take(kb.Record{1, 2}, 1, ordered([]kb.Constant{4}), 0))
}
