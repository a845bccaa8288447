// SPDX-License-Identifier: MIT

// Package negsample synthesizes negative records for the relations of a
// positive KB from per-constant relevance rankings.
//
// Every candidate is a positive record with exactly one argument replaced.
// A record of arity n has n substitution slots; slot a anchors on argument
// a, whose ranking supplies the candidates, and replaces argument (a+1) mod n.
// For binary relations that is "replace the object by constants relevant to
// the subject", then "replace the subject by constants relevant to the
// object". Unary relations replace their only argument.
//
// Every accepted candidate passes IsNovelNegative: it is neither a positive
// record nor already sampled for that relation.
//
// Policies:
//
//	TopK         up to K hard negatives per slot from the relevant list,
//	             then one trivial negative per slot from the ascending order.
//	TopPercent   round-robin over the top P% of the descending order with a
//	             counter shared by every round, record and slot of a relation.
//	FullRanking  round-robin over each anchor's own relevant list; the default.
//
// Running out of candidates is never an error: the slot contributes fewer
// negatives. Sampling is deterministic for fixed inputs.
package negsample
