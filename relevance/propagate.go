// SPDX-License-Identifier: MIT

package relevance

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/matrix"
	"go.uber.org/zap"
)

// walkScale halves the direct matrix into the random-walk base.
const walkScale = 0.5

// lastWalkWeight is the weight of the longest walk term of a composite hop.
const lastWalkWeight = 2.0

// Propagation holds the hop relevance matrices 0..MaxHops. It is immutable
// after Propagate returns.
type Propagation struct {
	// Hops[h] is the C×C relevance matrix for hop h.
	Hops []*matrix.Dense
}

// Universe returns C.
func (p *Propagation) Universe() int { return p.Hops[0].Rows() }

// MaxHops returns H.
func (p *Propagation) MaxHops() int { return len(p.Hops) - 1 }

// Hop returns the relevance matrix for hop h.
func (p *Propagation) Hop(h int) (*matrix.Dense, error) {
	if h < 0 || h >= len(p.Hops) {
		return nil, fmt.Errorf("relevance: hop %d of %d: %w", h, p.MaxHops(), ErrHopOutOfRange)
	}

	return p.Hops[h], nil
}

// Rank ranks hop h; see Rank.
func (p *Propagation) Rank(h int, opts ...Option) (*Ranking, error) {
	m, err := p.Hop(h)
	if err != nil {
		return nil, err
	}

	return Rank(m, opts...)
}

// Footprint estimates the bytes Propagate keeps live for a universe of C
// constants and maxHops hops: every hop matrix plus the walk base and the
// running walk and prefix sum.
func Footprint(universe, maxHops int) uint64 {
	return uint64(maxHops+4) * matrix.Bytes(universe, universe)
}

// Propagate computes the hop relevance matrices 0..maxHops of g.
// MAIN DESCRIPTION:
//   - Hops[0] is the raw direct matrix; later edges for the same pair
//     overwrite earlier ones.
//   - Hops[h] = Walk[0] + … + Walk[h-1] + 2·Walk[h] for h ≥ 1, kept as a
//     running prefix sum so each hop costs one Mul and two passes.
//
// Errors:
//   - ErrOptionViolation for invalid options or maxHops < 0.
//   - Everything Graph.Validate reports.
//   - ctx.Err() when the context is cancelled between hops.
//
// Complexity:
//   - Time O(H·C³) worst case (zero rows are skipped), Space O((H+4)·C²).
func Propagate(g *Graph, maxHops int, opts ...Option) (*Propagation, error) {
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	if maxHops < 0 {
		return nil, fmt.Errorf("Propagate: maxHops %d: %w", maxHops, ErrOptionViolation)
	}
	if err = g.Validate(); err != nil {
		return nil, err
	}
	c := g.Universe
	log := o.Logger.With(zap.Int("constants", c))
	log.Info("propagating relevance",
		zap.Int("max_hops", maxHops),
		zap.String("footprint", humanize.Bytes(Footprint(c, maxHops))))

	start := time.Now()
	direct, err := buildDirect(g)
	if err != nil {
		return nil, err
	}
	p := &Propagation{Hops: make([]*matrix.Dense, maxHops+1)}
	p.Hops[0] = direct
	if maxHops == 0 {
		log.Info("hop ready", zap.Int("hop", 0), zap.Duration("elapsed", time.Since(start)))
		return p, nil
	}

	walk0, err := matrix.Scale(direct, walkScale)
	if err != nil {
		return nil, fmt.Errorf("Propagate: %w", err)
	}
	prefix := walk0.Clone().(*matrix.Dense)
	walk := walk0
	for h := 1; h <= maxHops; h++ {
		if err = o.Ctx.Err(); err != nil {
			return nil, fmt.Errorf("Propagate: hop %d: %w", h, err)
		}
		hopStart := time.Now()
		if walk, err = matrix.Mul(walk, walk0, matrix.WithWorkers(o.Workers)); err != nil {
			return nil, fmt.Errorf("Propagate: hop %d: %w", h, err)
		}
		hop := prefix.Clone().(*matrix.Dense)
		if err = matrix.AddScaledInPlace(hop, walk, lastWalkWeight); err != nil {
			return nil, fmt.Errorf("Propagate: hop %d: %w", h, err)
		}
		p.Hops[h] = hop
		if h < maxHops {
			if err = matrix.AddScaledInPlace(prefix, walk, 1); err != nil {
				return nil, fmt.Errorf("Propagate: hop %d: %w", h, err)
			}
		}
		log.Info("hop ready", zap.Int("hop", h), zap.Duration("elapsed", time.Since(hopStart)))
	}
	log.Info("relevance propagated", zap.Duration("elapsed", time.Since(start)))

	return p, nil
}

// buildDirect writes every edge weight into a fresh C×C matrix.
func buildDirect(g *Graph) (*matrix.Dense, error) {
	direct, err := matrix.NewDense(g.Universe, g.Universe)
	if err != nil {
		return nil, fmt.Errorf("Propagate: %w", err)
	}
	for i, edges := range g.Edges {
		row, err := direct.RowView(i)
		if err != nil {
			return nil, fmt.Errorf("Propagate: constant %d: %w", kb.ConstantAt(i), err)
		}
		for _, e := range edges {
			row[e.Target.Index()] = float64(e.Weight)
		}
	}

	return direct, nil
}
