// SPDX-License-Identifier: MIT

package negsample

import (
	"iter"
	"slices"

	"github.com/katalvlaran/negkb/kb"
)

// ordered yields the constants of list from first to last.
func ordered(list []kb.Constant) iter.Seq[kb.Constant] {
	return slices.Values(list)
}

// roundRobin is a counter shared by every slot of one relation. Each cycle
// cursor draws list[i mod len(list)] and advances i, so successive slots
// continue where the previous one stopped.
type roundRobin struct {
	i int
}

// cycle yields at most attempts constants from list, advancing the shared
// counter once per yielded constant, before the consumer sees it. An empty
// list yields nothing and leaves the counter untouched.
func (rr *roundRobin) cycle(list []kb.Constant, attempts int) iter.Seq[kb.Constant] {
	return func(yield func(kb.Constant) bool) {
		if len(list) == 0 {
			return
		}
		for range attempts {
			c := list[rr.i%len(list)]
			rr.i++
			if !yield(c) {
				return
			}
		}
	}
}

// slot describes one substitution: candidates come from the ranking of
// record[anchor] and replace record[target].
type slot struct {
	anchor, target int
}

// slots returns the substitution slots of an arity-n record in order.
func slots(n int) []slot {
	out := make([]slot, n)
	for a := range out {
		out[a] = slot{anchor: a, target: (a + 1) % n}
	}

	return out
}

// acceptor substitutes candidates into one positive record and keeps the
// novel ones.
type acceptor struct {
	pos     *kb.Relation
	neg     *RecordSet
	scratch kb.Record
}

func newAcceptor(pos *kb.Relation) *acceptor {
	return &acceptor{
		pos:     pos,
		neg:     NewRecordSet(pos.Arity()),
		scratch: make(kb.Record, pos.Arity()),
	}
}

// take substitutes each candidate at target in rec and accepts novel ones
// until limit records were added or cands is exhausted. It returns the
// number accepted.
func (a *acceptor) take(rec kb.Record, target int, cands iter.Seq[kb.Constant], limit int) int {
	if limit < 1 {
		return 0
	}
	copy(a.scratch, rec)
	accepted := 0
	for c := range cands {
		a.scratch[target] = c
		if !IsNovelNegative(a.scratch, a.pos, a.neg) {
			continue
		}
		a.neg.Add(a.scratch)
		if accepted++; accepted == limit {
			break
		}
	}

	return accepted
}
