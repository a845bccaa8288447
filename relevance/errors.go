// SPDX-License-Identifier: MIT

package relevance

import "errors"

// Sentinel errors for relevance propagation and ranking.
// Out-of-range constants surface kb.ErrConstantOutOfRange; short files
// surface kb.ErrTruncated.
var (
	// ErrEmptyUniverse indicates a graph or ranking over zero constants.
	ErrEmptyUniverse = errors.New("relevance: universe must hold at least one constant")

	// ErrInvalidWeight indicates a negative, NaN or infinite edge weight.
	ErrInvalidWeight = errors.New("relevance: weight must be finite and non-negative")

	// ErrHopOutOfRange indicates a hop outside [0, MaxHops].
	ErrHopOutOfRange = errors.New("relevance: hop out of range")

	// ErrMalformed indicates a negative count, a duplicated ranked constant
	// or trailing bytes.
	ErrMalformed = errors.New("relevance: malformed input")

	// ErrNilGraph is returned when a nil *Graph is passed.
	ErrNilGraph = errors.New("relevance: graph is nil")

	// ErrNilRanking is returned when a nil *Ranking is passed.
	ErrNilRanking = errors.New("relevance: ranking is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("relevance: invalid option supplied")
)
