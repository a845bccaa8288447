// SPDX-License-Identifier: MIT

package relevance

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/matrix"
	"golang.org/x/sync/errgroup"
)

// Ranking orders all constants by relevance, per constant.
// Rows are stored flat: the order of constant c occupies
// [(c-1)·C, c·C) of desc and asc.
type Ranking struct {
	universe int
	desc     []kb.Constant // most relevant first, ties by constant ascending
	asc      []kb.Constant // least relevant first, ties by constant ascending
	relevant []int         // per constant, length of the positive-score prefix of desc
}

// Universe returns C.
func (rk *Ranking) Universe() int { return rk.universe }

func (rk *Ranking) row(order []kb.Constant, c kb.Constant) []kb.Constant {
	lo := c.Index() * rk.universe
	return order[lo : lo+rk.universe : lo+rk.universe]
}

// Descending returns every constant ordered by decreasing relevance to c.
// The result is shared and must not be modified. c must lie in [1, C].
func (rk *Ranking) Descending(c kb.Constant) []kb.Constant { return rk.row(rk.desc, c) }

// Ascending returns every constant ordered by increasing relevance to c.
// The result is shared and must not be modified. c must lie in [1, C].
func (rk *Ranking) Ascending(c kb.Constant) []kb.Constant { return rk.row(rk.asc, c) }

// Relevant returns the ranked relevance list of c: Descending(c) cut before
// the first constant with score 0. The result is shared and must not be
// modified. c must lie in [1, C].
func (rk *Ranking) Relevant(c kb.Constant) []kb.Constant {
	return rk.Descending(c)[:rk.relevant[c.Index()]]
}

// Lists returns the ranked relevance list of every constant, by index.
func (rk *Ranking) Lists() [][]kb.Constant {
	out := make([][]kb.Constant, rk.universe)
	for i := range out {
		out[i] = rk.Relevant(kb.ConstantAt(i))
	}

	return out
}

func newRanking(universe int) *Ranking {
	cells := universe * universe
	return &Ranking{
		universe: universe,
		desc:     make([]kb.Constant, cells),
		asc:      make([]kb.Constant, cells),
		relevant: make([]int, universe),
	}
}

// Rank builds the Ranking of a square relevance matrix. Rows are ranked
// independently; WithWorkers spreads them over goroutines without changing
// the result.
//
// Errors:
//   - ErrOptionViolation for invalid options.
//   - matrix.ErrNilMatrix / matrix.ErrDimensionMismatch for a nil or
//     non-square matrix.
//   - ctx.Err() when cancelled.
//
// Complexity: O(C²·log C) time, 2·C² constants of storage.
func Rank(m *matrix.Dense, opts ...Option) (*Ranking, error) {
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateSquare(m); err != nil {
		return nil, fmt.Errorf("Rank: %w", err)
	}
	rk := newRanking(m.Rows())
	if err = rk.fill(o, func(i int, scores []float64) error {
		row, err := m.RowView(i)
		if err != nil {
			return err
		}
		copy(scores, row)
		return nil
	}); err != nil {
		return nil, err
	}

	return rk, nil
}

// RankingFromLists rebuilds a Ranking from ranked relevance lists, e.g. a
// dump written by WriteRankedLists. Entry k of a list of length n gets score
// n-k; constants absent from the list score 0.
//
// Errors:
//   - ErrEmptyUniverse for zero lists.
//   - kb.ErrConstantOutOfRange for an entry outside [1, len(lists)].
//   - ErrMalformed for a constant listed twice.
func RankingFromLists(lists [][]kb.Constant) (*Ranking, error) {
	universe := len(lists)
	if universe < 1 {
		return nil, ErrEmptyUniverse
	}
	for i, list := range lists {
		seen := make(map[kb.Constant]struct{}, len(list))
		for _, c := range list {
			if !c.InUniverse(universe) {
				return nil, fmt.Errorf("relevance: list of %d holds %d: %w", kb.ConstantAt(i), c, kb.ErrConstantOutOfRange)
			}
			if _, dup := seen[c]; dup {
				return nil, fmt.Errorf("relevance: list of %d repeats %d: %w", kb.ConstantAt(i), c, ErrMalformed)
			}
			seen[c] = struct{}{}
		}
	}
	rk := newRanking(universe)
	if err := rk.fill(DefaultOptions(), func(i int, scores []float64) error {
		clear(scores)
		list := lists[i]
		for k, c := range list {
			scores[c.Index()] = float64(len(list) - k)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return rk, nil
}

// fill ranks every row; load writes row i's scores into a scratch buffer.
func (rk *Ranking) fill(o Options, load func(i int, scores []float64) error) error {
	n := rk.universe
	workers := min(o.Workers, n)
	block := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(o.Ctx)
	for lo := 0; lo < n; lo += block {
		hi := min(lo+block, n)
		g.Go(func() error {
			scores := make([]float64, n)
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("Rank: constant %d: %w", kb.ConstantAt(i), err)
				}
				if err := load(i, scores); err != nil {
					return fmt.Errorf("Rank: constant %d: %w", kb.ConstantAt(i), err)
				}
				c := kb.ConstantAt(i)
				rk.relevant[i] = rankRow(scores, rk.row(rk.desc, c), rk.row(rk.asc, c))
			}
			return nil
		})
	}

	return g.Wait()
}

// rankRow fills desc and asc with the constants ordered by scores and
// returns the number of leading desc entries before the first zero score.
func rankRow(scores []float64, desc, asc []kb.Constant) int {
	for i := range desc {
		desc[i] = kb.ConstantAt(i)
	}
	slices.SortFunc(desc, func(a, b kb.Constant) int {
		if c := cmp.Compare(scores[b.Index()], scores[a.Index()]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	copy(asc, desc)
	slices.SortFunc(asc, func(a, b kb.Constant) int {
		if c := cmp.Compare(scores[a.Index()], scores[b.Index()]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	relevant := 0
	for _, c := range desc {
		if scores[c.Index()] == 0 {
			break
		}
		relevant++
	}

	return relevant
}
