// SPDX-License-Identifier: MIT

package relevance

import (
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/negkb/kb"
	"github.com/spf13/afero"
)

// Edge is one directed relevance entry: Target is relevant to the source
// constant with the given non-negative Weight.
type Edge struct {
	Target kb.Constant
	Weight float32
}

// Graph is the sparse relevance adjacency over constants 1..Universe.
// Edges[i] lists the outgoing edges of constant i+1 in file order.
type Graph struct {
	Universe int
	Edges    [][]Edge
}

// NewGraph returns an edgeless graph over universe constants.
func NewGraph(universe int) (*Graph, error) {
	if universe < 1 {
		return nil, ErrEmptyUniverse
	}

	return &Graph{Universe: universe, Edges: make([][]Edge, universe)}, nil
}

// AddEdge appends from→to with weight w. Validation is deferred to Validate.
func (g *Graph) AddEdge(from, to kb.Constant, w float32) {
	g.Edges[from.Index()] = append(g.Edges[from.Index()], Edge{Target: to, Weight: w})
}

// Validate checks the universe, every edge target and every weight.
//
// Errors:
//   - ErrNilGraph, ErrEmptyUniverse.
//   - ErrMalformed when len(Edges) != Universe.
//   - kb.ErrConstantOutOfRange for a target outside [1, Universe].
//   - ErrInvalidWeight for a negative, NaN or infinite weight.
func (g *Graph) Validate() error {
	if g == nil {
		return ErrNilGraph
	}
	if g.Universe < 1 {
		return ErrEmptyUniverse
	}
	if len(g.Edges) != g.Universe {
		return fmt.Errorf("relevance: %d edge lists for %d constants: %w", len(g.Edges), g.Universe, ErrMalformed)
	}
	for i, edges := range g.Edges {
		src := kb.ConstantAt(i)
		for _, e := range edges {
			if !e.Target.InUniverse(g.Universe) {
				return fmt.Errorf("relevance: edge %d→%d: %w", src, e.Target, kb.ErrConstantOutOfRange)
			}
			w := float64(e.Weight)
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("relevance: edge %d→%d weight %v: %w", src, e.Target, e.Weight, ErrInvalidWeight)
			}
		}
	}

	return nil
}

// ReadGraph decodes a relevance graph and validates it.
//
// Errors:
//   - kb.ErrTruncated for a short stream.
//   - ErrMalformed for negative counts or trailing bytes.
//   - Everything Validate reports.
func ReadGraph(r io.Reader) (*Graph, error) {
	ir := kb.NewIntReader(r)
	universe := int(ir.Int32())
	if err := ir.Err(); err != nil {
		return nil, fmt.Errorf("relevance: header: %w", err)
	}
	g, err := NewGraph(universe)
	if err != nil {
		return nil, err
	}

	for i := range g.Edges {
		n := int(ir.Int32())
		if ir.Err() == nil && n < 0 {
			return nil, fmt.Errorf("relevance: constant %d edge count %d: %w", kb.ConstantAt(i), n, ErrMalformed)
		}
		edges := make([]Edge, 0, min(n, universe))
		for j := 0; j < n && ir.Err() == nil; j++ {
			target := kb.Constant(ir.Int32())
			edges = append(edges, Edge{Target: target, Weight: ir.Float32()})
		}
		if err := ir.Err(); err != nil {
			return nil, fmt.Errorf("relevance: constant %d: %w", kb.ConstantAt(i), err)
		}
		g.Edges[i] = edges
	}
	if !ir.AtEOF() {
		return nil, fmt.Errorf("relevance: trailing bytes: %w", ErrMalformed)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// LoadGraph opens path on fsys and decodes it with ReadGraph.
func LoadGraph(fsys afero.Fs, path string) (*Graph, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("relevance: %w", err)
	}
	defer f.Close()

	g, err := ReadGraph(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

// WriteGraph encodes g in the format ReadGraph accepts.
func WriteGraph(w io.Writer, g *Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	iw := kb.NewIntWriter(w)
	iw.Int32(int32(g.Universe))
	for _, edges := range g.Edges {
		iw.Int32(int32(len(edges)))
		for _, e := range edges {
			iw.Int32(int32(e.Target))
			iw.Float32(e.Weight)
		}
	}

	return iw.Flush()
}
