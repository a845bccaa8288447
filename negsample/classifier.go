// SPDX-License-Identifier: MIT

package negsample

import "github.com/katalvlaran/negkb/kb"

// IsNovelNegative reports whether candidate may join neg: it is absent from
// the sorted positive relation (binary search, full-tuple equality) and not
// yet sampled. A nil neg is treated as empty. No side effects.
func IsNovelNegative(candidate kb.Record, pos *kb.Relation, neg *RecordSet) bool {
	return !pos.Contains(candidate) && !neg.Contains(candidate)
}
