// SPDX-License-Identifier: MIT

package relevance

import (
	"fmt"
	"io"

	"github.com/katalvlaran/negkb/kb"
	"github.com/spf13/afero"
)

// WriteRankedLists encodes the ranked relevance list of every constant:
// int32 C, then per constant an int32 count followed by that many int32
// constants, most relevant first. A nil rk is ErrNilRanking.
func WriteRankedLists(w io.Writer, rk *Ranking) error {
	if rk == nil {
		return ErrNilRanking
	}
	iw := kb.NewIntWriter(w)
	iw.Int32(int32(rk.Universe()))
	for i := 0; i < rk.Universe(); i++ {
		list := rk.Relevant(kb.ConstantAt(i))
		iw.Int32(int32(len(list)))
		for _, c := range list {
			iw.Int32(int32(c))
		}
	}

	return iw.Flush()
}

// ReadRankedLists decodes a WriteRankedLists stream into a Ranking. The
// relevant prefixes round-trip exactly; orders beyond them are rebuilt with
// score 0, so ties fall back to constant order.
//
// Errors:
//   - kb.ErrTruncated for a short stream.
//   - ErrMalformed for negative counts, oversized lists or trailing bytes.
//   - Everything RankingFromLists reports.
func ReadRankedLists(r io.Reader) (*Ranking, error) {
	ir := kb.NewIntReader(r)
	universe := int(ir.Int32())
	if err := ir.Err(); err != nil {
		return nil, fmt.Errorf("relevance: ranked lists header: %w", err)
	}
	if universe < 1 {
		return nil, ErrEmptyUniverse
	}

	lists := make([][]kb.Constant, universe)
	for i := range lists {
		n := int(ir.Int32())
		if ir.Err() == nil && (n < 0 || n > universe) {
			return nil, fmt.Errorf("relevance: ranked list of %d has %d entries: %w", kb.ConstantAt(i), n, ErrMalformed)
		}
		list := make([]kb.Constant, 0, max(n, 0))
		for j := 0; j < n && ir.Err() == nil; j++ {
			list = append(list, kb.Constant(ir.Int32()))
		}
		if err := ir.Err(); err != nil {
			return nil, fmt.Errorf("relevance: ranked list of %d: %w", kb.ConstantAt(i), err)
		}
		lists[i] = list
	}
	if !ir.AtEOF() {
		return nil, fmt.Errorf("relevance: ranked lists: trailing bytes: %w", ErrMalformed)
	}

	return RankingFromLists(lists)
}

// DumpRankedLists writes rk to path on fsys.
func DumpRankedLists(fsys afero.Fs, path string, rk *Ranking) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("relevance: %w", err)
	}
	if err = WriteRankedLists(f, rk); err != nil {
		_ = f.Close()
		return fmt.Errorf("relevance: %s: %w", path, err)
	}

	return f.Close()
}

// LoadRankedLists reads a ranked-list dump from path on fsys.
func LoadRankedLists(fsys afero.Fs, path string) (*Ranking, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("relevance: %w", err)
	}
	defer f.Close()

	rk, err := ReadRankedLists(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rk, nil
}
