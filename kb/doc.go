// SPDX-License-Identifier: MIT

// Package kb defines the relational knowledge-base model shared by the
// relevance propagator and the negative sampler, and the fixed-format binary
// store that reads positive KBs and writes negative KBs.
//
// Constants are 1-indexed int32 identifiers. A Record is an ordered tuple of
// constants; a Relation is an immutable, lexicographically sorted sequence of
// records with a binary-search membership test.
//
// On-disk layout of a positive KB directory:
//
//	Relations.tsv   one line per relation: "<name>\t<arity>\t<records>"
//	<i>.rel         <records> tuples of <arity> little-endian int32
//
// On-disk layout of a negative KB directory (<base>/<name>/):
//
//	Relations.dat   int32 n, then n pairs (int32 arity, int32 records)
//	<i>.neg         <records> tuples of <arity> little-endian int32
//	<i>.wt          optional, <records> little-endian float32 weights
package kb
