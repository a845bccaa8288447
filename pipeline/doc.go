// SPDX-License-Identifier: MIT

// Package pipeline drives one negative-sampling run: load the positive KB,
// obtain a ranking (propagated from the relevance graph or loaded from a
// ranked-list dump), sample every relation, optionally weight the negatives,
// dump the negative KB and record a manifest next to it.
package pipeline
