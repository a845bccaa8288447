// SPDX-License-Identifier: MIT

package negsample

import (
	"fmt"
	"math"

	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/relevance"
)

// Policy names accepted by NewPolicy.
const (
	PolicyTopK        = "top-k"
	PolicyTopPercent  = "top-percent"
	PolicyFullRanking = "full-ranking"
)

// Policy draws the negatives of one relation from a ranking. Implementations
// assume every constant of rel lies in the ranking's universe; Sampler checks
// that before calling Sample.
type Policy interface {
	// Name identifies the policy in logs and manifests.
	Name() string

	// Validate checks the policy parameters.
	Validate() error

	// Sample returns the negatives of rel in acceptance order.
	Sample(rel *kb.Relation, rk *relevance.Ranking) *RecordSet
}

// Params carries the parameters of every policy; each policy reads its own.
type Params struct {
	K       int
	Percent float64
	Rounds  int
}

// NewPolicy builds the named policy and validates it.
func NewPolicy(name string, p Params) (Policy, error) {
	var pol Policy
	switch name {
	case PolicyTopK:
		pol = TopK{K: p.K}
	case PolicyTopPercent:
		pol = TopPercent{Percent: p.Percent, Rounds: p.Rounds}
	case PolicyFullRanking, "":
		pol = FullRanking{Rounds: p.Rounds}
	default:
		return nil, fmt.Errorf("NewPolicy(%q): %w", name, ErrUnknownPolicy)
	}
	if err := pol.Validate(); err != nil {
		return nil, err
	}

	return pol, nil
}

// TopK takes up to K hard negatives per slot from the anchor's relevant
// list. After every record had its hard pass, each slot gets one trivial
// negative: the first novel candidate of the anchor's ascending order.
// A record yields at most (K+1)·arity negatives.
type TopK struct {
	K int
}

// Name implements Policy.
func (p TopK) Name() string { return PolicyTopK }

// Validate requires K >= 1.
func (p TopK) Validate() error {
	if p.K < 1 {
		return fmt.Errorf("TopK{K: %d}: %w", p.K, ErrInvalidPolicy)
	}

	return nil
}

// Sample implements Policy.
func (p TopK) Sample(rel *kb.Relation, rk *relevance.Ranking) *RecordSet {
	acc := newAcceptor(rel)
	sl := slots(rel.Arity())
	for _, rec := range rel.All() {
		for _, s := range sl {
			acc.take(rec, s.target, ordered(rk.Relevant(rec[s.anchor])), p.K)
		}
	}
	for _, rec := range rel.All() {
		for _, s := range sl {
			acc.take(rec, s.target, ordered(rk.Ascending(rec[s.anchor])), 1)
		}
	}

	return acc.neg
}

// TopPercent cycles through the top Percent of each anchor's descending
// order for Rounds rounds. The window is round-half-even(C·Percent/100)
// clamped to [0, C]; a slot tries at most C candidates.
type TopPercent struct {
	Percent float64
	Rounds  int
}

// Name implements Policy.
func (p TopPercent) Name() string { return PolicyTopPercent }

// Validate requires 0 <= Percent <= 100 and Rounds >= 1.
func (p TopPercent) Validate() error {
	if p.Percent < 0 || p.Percent > 100 || math.IsNaN(p.Percent) || p.Rounds < 1 {
		return fmt.Errorf("TopPercent{Percent: %v, Rounds: %d}: %w", p.Percent, p.Rounds, ErrInvalidPolicy)
	}

	return nil
}

// Window returns the number of top-ranked constants eligible in a universe
// of c constants.
func (p TopPercent) Window(c int) int {
	w := int(math.RoundToEven(float64(c) * p.Percent / 100))

	return min(max(w, 0), c)
}

// Sample implements Policy.
func (p TopPercent) Sample(rel *kb.Relation, rk *relevance.Ranking) *RecordSet {
	c := rk.Universe()
	window := p.Window(c)

	return roundRobinSample(rel, p.Rounds, c, func(anchor kb.Constant) []kb.Constant {
		return rk.Descending(anchor)[:window]
	})
}

// FullRanking cycles through each anchor's own relevant list for Rounds
// rounds; a slot tries at most C candidates. It is the default policy.
type FullRanking struct {
	Rounds int
}

// Name implements Policy.
func (p FullRanking) Name() string { return PolicyFullRanking }

// Validate requires Rounds >= 1.
func (p FullRanking) Validate() error {
	if p.Rounds < 1 {
		return fmt.Errorf("FullRanking{Rounds: %d}: %w", p.Rounds, ErrInvalidPolicy)
	}

	return nil
}

// Sample implements Policy.
func (p FullRanking) Sample(rel *kb.Relation, rk *relevance.Ranking) *RecordSet {
	return roundRobinSample(rel, p.Rounds, rk.Universe(), rk.Relevant)
}

// roundRobinSample runs rounds × records × slots with one counter for the
// whole relation, accepting at most one negative per slot visit.
func roundRobinSample(rel *kb.Relation, rounds, attempts int, list func(kb.Constant) []kb.Constant) *RecordSet {
	acc := newAcceptor(rel)
	sl := slots(rel.Arity())
	var rr roundRobin
	for range rounds {
		for _, rec := range rel.All() {
			for _, s := range sl {
				acc.take(rec, s.target, rr.cycle(list(rec[s.anchor]), attempts), 1)
			}
		}
	}

	return acc.neg
}
