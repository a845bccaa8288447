// SPDX-License-Identifier: MIT

package negsample

import (
	"encoding/binary"
	"iter"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/katalvlaran/negkb/kb"
)

// RecordSet is a set of records keyed by tuple value that remembers
// insertion order. Records hash with xxhash over their little-endian int32
// encoding; colliding records share a bucket and are compared by value.
// A RecordSet is not safe for concurrent use.
type RecordSet struct {
	arity   int
	buckets map[uint64][]int // hash -> indices into records
	records []kb.Record
	scratch []byte
}

// NewRecordSet returns an empty set for records of the given arity.
func NewRecordSet(arity int) *RecordSet {
	return &RecordSet{
		arity:   arity,
		buckets: make(map[uint64][]int),
		scratch: make([]byte, arity*kb.IntSize),
	}
}

// Arity returns the tuple length of the set's records.
func (s *RecordSet) Arity() int { return s.arity }

// Len returns the number of distinct records.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.records)
}

func (s *RecordSet) hash(rec kb.Record) uint64 {
	buf := s.scratch[:0]
	for _, c := range rec {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c))
	}
	s.scratch = buf

	return xxhash.Sum64(buf)
}

func (s *RecordSet) find(h uint64, rec kb.Record) bool {
	for _, idx := range s.buckets[h] {
		if s.records[idx].Equal(rec) {
			return true
		}
	}

	return false
}

// Contains reports whether a record equal to rec is in the set. A nil set
// is empty.
func (s *RecordSet) Contains(rec kb.Record) bool {
	if s == nil || len(s.records) == 0 {
		return false
	}

	return s.find(s.hash(rec), rec)
}

// Add inserts a copy of rec and reports whether it was absent.
func (s *RecordSet) Add(rec kb.Record) bool {
	h := s.hash(rec)
	if s.find(h, rec) {
		return false
	}
	s.buckets[h] = append(s.buckets[h], len(s.records))
	s.records = append(s.records, rec.Clone())

	return true
}

// Records returns the records in insertion order. The slice is shared and
// must not be modified.
func (s *RecordSet) Records() []kb.Record {
	if s == nil {
		return nil
	}

	return s.records
}

// All iterates the records in insertion order.
func (s *RecordSet) All() iter.Seq[kb.Record] {
	return slices.Values(s.Records())
}
