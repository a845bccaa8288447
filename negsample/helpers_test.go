// SPDX-License-Identifier: MIT

package negsample_test

import (
	"testing"

	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/relevance"
	"github.com/stretchr/testify/require"
)

func mustRelation(t *testing.T, name string, arity int, recs ...kb.Record) *kb.Relation {
	t.Helper()
	rel, err := kb.NewRelation(name, arity, recs)
	require.NoError(t, err)

	return rel
}

func mustLists(t *testing.T, lists ...[]kb.Constant) *relevance.Ranking {
	t.Helper()
	rk, err := relevance.RankingFromLists(lists)
	require.NoError(t, err)

	return rk
}

// scenarioRanking is the 3-constant ranking 1→[3,2], 2→[1,3], 3→[].
func scenarioRanking(t *testing.T) *relevance.Ranking {
	return mustLists(t, []kb.Constant{3, 2}, []kb.Constant{1, 3}, nil)
}

// propagatedRanking ranks hop 2 of a deterministic graph over universe constants.
func propagatedRanking(t *testing.T, universe int) *relevance.Ranking {
	t.Helper()
	g, err := relevance.NewGraph(universe)
	require.NoError(t, err)
	for i := 1; i <= universe; i++ {
		for j := 1; j <= universe; j++ {
			if (i*3+j)%4 == 0 {
				g.AddEdge(kb.Constant(i), kb.Constant(j), float32((i+j)%3+1)/4)
			}
		}
	}
	p, err := relevance.Propagate(g, 2)
	require.NoError(t, err)
	rk, err := p.Rank(2)
	require.NoError(t, err)

	return rk
}

// gridRelation holds every (a, b) with (a*b) % 3 == 1 over 1..universe.
func gridRelation(t *testing.T, universe int) *kb.Relation {
	t.Helper()
	var recs []kb.Record
	for a := 1; a <= universe; a++ {
		for b := 1; b <= universe; b++ {
			if (a*b)%3 == 1 {
				recs = append(recs, kb.Record{kb.Constant(a), kb.Constant(b)})
			}
		}
	}

	return mustRelation(t, "grid", 2, recs...)
}

// differsInOne reports whether neg equals some positive record in all but
// exactly one position.
func differsInOne(pos *kb.Relation, neg kb.Record) bool {
	for _, rec := range pos.All() {
		diff := 0
		for i := range rec {
			if rec[i] != neg[i] {
				diff++
			}
		}
		if diff == 1 {
			return true
		}
	}

	return false
}
