// SPDX-License-Identifier: MIT

package kb

import (
	"fmt"
	"iter"
	"slices"
)

// Constant identifies an entity of the KB universe. Valid constants are 1..C;
// 0 is never a constant.
type Constant int32

// Index returns the zero-based matrix index of c.
func (c Constant) Index() int { return int(c) - 1 }

// ConstantAt returns the constant stored at zero-based matrix index i.
func ConstantAt(i int) Constant { return Constant(i + 1) }

// InUniverse reports whether c lies in [1, universe].
func (c Constant) InUniverse(universe int) bool {
	return c >= 1 && int(c) <= universe
}

// Record is an ordered tuple of constants. Its length is the arity.
type Record []Constant

// Compare orders records lexicographically by tuple value.
func Compare(a, b Record) int { return slices.Compare(a, b) }

// Equal reports full-tuple equality.
func (r Record) Equal(o Record) bool { return slices.Equal(r, o) }

// Clone returns an independent copy of r.
func (r Record) Clone() Record { return slices.Clone(r) }

// Relation is a named predicate with fixed arity whose records are kept in
// ascending lexicographic order. A Relation is immutable after NewRelation;
// membership tests rely on that order.
type Relation struct {
	name    string
	arity   int
	records []Record
}

// NewRelation validates and sorts records into a new Relation.
// Records are deep-copied, so the caller may keep mutating its slice.
//
// Errors:
//   - ErrInvalidArity when arity < 1.
//   - ErrArityMismatch when a record has the wrong length.
//   - ErrConstantOutOfRange when a record holds a constant < 1.
//
// Complexity: O(n·a·log n).
func NewRelation(name string, arity int, records []Record) (*Relation, error) {
	if arity < 1 {
		return nil, fmt.Errorf("relation %q: %w", name, ErrInvalidArity)
	}
	sorted := make([]Record, len(records))
	for i, rec := range records {
		if len(rec) != arity {
			return nil, fmt.Errorf("relation %q record %d: %w", name, i, ErrArityMismatch)
		}
		for _, c := range rec {
			if c < 1 {
				return nil, fmt.Errorf("relation %q record %d constant %d: %w", name, i, c, ErrConstantOutOfRange)
			}
		}
		sorted[i] = rec.Clone()
	}
	slices.SortFunc(sorted, Compare)

	return &Relation{name: name, arity: arity, records: sorted}, nil
}

// Name returns the relation name.
func (r *Relation) Name() string { return r.name }

// Arity returns the fixed tuple length.
func (r *Relation) Arity() int { return r.arity }

// Len returns the number of records.
func (r *Relation) Len() int { return len(r.records) }

// Record returns the i-th record in sorted order. The result must not be modified.
func (r *Relation) Record(i int) Record { return r.records[i] }

// All iterates records in ascending order.
func (r *Relation) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, rec := range r.records {
			if !yield(i, rec) {
				return
			}
		}
	}
}

// Search returns the insertion index of rec in the sorted records and whether
// an equal record is present there.
// Complexity: O(a·log n).
func (r *Relation) Search(rec Record) (int, bool) {
	return slices.BinarySearchFunc(r.records, rec, Compare)
}

// Contains reports whether rec is one of the relation's records, by binary
// search with full-tuple equality.
func (r *Relation) Contains(rec Record) bool {
	_, found := r.Search(rec)
	return found
}

// MaxConstant returns the largest constant referenced by any record, or 0
// for an empty relation.
func (r *Relation) MaxConstant() Constant {
	var hi Constant
	for _, rec := range r.records {
		for _, c := range rec {
			hi = max(hi, c)
		}
	}

	return hi
}

// KB is a positive knowledge base: an ordered list of relations whose
// position is the relation ID used by the on-disk format.
type KB struct {
	Name      string
	Relations []*Relation
}

// TotalRecords sums the record counts of all relations.
func (k *KB) TotalRecords() int {
	n := 0
	for _, rel := range k.Relations {
		n += rel.Len()
	}

	return n
}

// NegativeRelation holds the synthesized negatives of one positive relation,
// in the order they were accepted. Weights is either nil or parallel to Records.
type NegativeRelation struct {
	Name    string
	Arity   int
	Records []Record
	Weights []float32
}

// NegativeKB groups one NegativeRelation per positive relation, by relation ID.
type NegativeKB struct {
	Name      string
	Relations []NegativeRelation
}

// TotalRecords sums the negative record counts of all relations.
func (n *NegativeKB) TotalRecords() int {
	total := 0
	for _, rel := range n.Relations {
		total += len(rel.Records)
	}

	return total
}
