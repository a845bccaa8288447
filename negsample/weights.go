// SPDX-License-Identifier: MIT

package negsample

import (
	"cmp"
	"math"
	"slices"

	"github.com/katalvlaran/negkb/kb"
)

// Weights assigns each negative the share of the gap it stands for. The
// gap of a negative is the set of records lying strictly between its
// neighbouring positives in lexicographic order, counted over constants
// 1..universe; the outer gaps extend to [1,…,1] and [C,…,C] inclusive.
// Negatives in the same gap split its size evenly, so the weights of a gap
// sum to its size.
// An empty positive relation forms one gap of universe^arity records.
//
// The result is parallel to negs. Negatives must not be positives.
func Weights(pos *kb.Relation, negs []kb.Record, universe int) []float32 {
	weights := make([]float32, len(negs))
	if len(negs) == 0 {
		return weights
	}

	order := make([]int, len(negs))
	gaps := make([]int, len(negs))
	for i, neg := range negs {
		order[i] = i
		gaps[i], _ = pos.Search(neg)
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(gaps[a], gaps[b]) })

	for lo := 0; lo < len(order); {
		gap := gaps[order[lo]]
		hi := lo + 1
		for hi < len(order) && gaps[order[hi]] == gap {
			hi++
		}
		w := float32(gapSize(pos, gap, universe) / float64(hi-lo))
		for _, idx := range order[lo:hi] {
			weights[idx] = w
		}
		lo = hi
	}

	return weights
}

// gapSize counts the records in gap idx of pos: before Record(0) for idx 0,
// after the last record for idx == Len(), strictly between Record(idx-1)
// and Record(idx) otherwise.
func gapSize(pos *kb.Relation, idx, universe int) float64 {
	arity := pos.Arity()
	if pos.Len() == 0 {
		return math.Pow(float64(universe), float64(arity))
	}
	first := make(kb.Record, arity)
	last := make(kb.Record, arity)
	for i := range first {
		first[i], last[i] = 1, kb.Constant(universe)
	}

	switch {
	case idx == 0:
		return span(first, pos.Record(0), universe)
	case idx >= pos.Len():
		return span(pos.Record(pos.Len()-1), last, universe)
	default:
		return span(pos.Record(idx-1), pos.Record(idx), universe) - 1
	}
}

// span is the mixed-radix distance end - start with digits 1..universe.
func span(start, end kb.Record, universe int) float64 {
	diff := float64(end[0] - start[0])
	for i := 1; i < len(start); i++ {
		diff = diff*float64(universe) + float64(end[i]-start[i])
	}

	return diff
}
