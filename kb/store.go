// SPDX-License-Identifier: MIT

package kb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// File names of the on-disk formats.
const (
	PositiveMetaFile = "Relations.tsv"
	NegativeMetaFile = "Relations.dat"
)

// PositiveRelFile returns the file name of the relID-th positive relation.
func PositiveRelFile(relID int) string { return fmt.Sprintf("%d.rel", relID) }

// NegativeRelFile returns the file name of the relID-th negative relation.
func NegativeRelFile(relID int) string { return fmt.Sprintf("%d.neg", relID) }

// WeightFile returns the file name of the relID-th negative weight vector.
func WeightFile(relID int) string { return fmt.Sprintf("%d.wt", relID) }

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log *zap.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store reads positive KBs and reads/writes negative KBs on an afero
// filesystem. A Store holds no KB state and is safe for concurrent use when
// its filesystem is.
type Store struct {
	fs  afero.Fs
	log *zap.Logger
}

// NewStore creates a Store over fsys (afero.NewOsFs() in production,
// afero.NewMemMapFs() in tests).
func NewStore(fsys afero.Fs, opts ...StoreOption) *Store {
	s := &Store{fs: fsys, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// relationMeta is one parsed line of Relations.tsv.
type relationMeta struct {
	name    string
	arity   int
	records int
}

// LoadPositive reads the positive KB stored in dir. The KB is named after
// the directory's base name. Every relation is sorted on load.
//
// Errors:
//   - ErrMalformed for unparsable metadata or trailing bytes.
//   - ErrTruncated for short relation files.
//   - ErrInvalidArity / ErrConstantOutOfRange from NewRelation.
//   - Filesystem errors, wrapped with the offending path.
func (s *Store) LoadPositive(dir string) (*KB, error) {
	start := time.Now()
	metas, err := s.readPositiveMeta(filepath.Join(dir, PositiveMetaFile))
	if err != nil {
		return nil, err
	}

	k := &KB{Name: path.Base(filepath.ToSlash(filepath.Clean(dir))), Relations: make([]*Relation, 0, len(metas))}
	var totalBytes uint64
	for relID, meta := range metas {
		relPath := filepath.Join(dir, PositiveRelFile(relID))
		buf, err := afero.ReadFile(s.fs, relPath)
		if err != nil {
			return nil, fmt.Errorf("kb: relation %q: %w", meta.name, err)
		}
		want := int64(meta.records) * int64(meta.arity) * IntSize
		if err := checkSize(int64(len(buf)), want); err != nil {
			return nil, fmt.Errorf("kb: relation %q (%s): %w", meta.name, relPath, err)
		}
		rel, err := NewRelation(meta.name, meta.arity, decodeRecords(buf, meta.arity, meta.records))
		if err != nil {
			return nil, fmt.Errorf("kb: %w", err)
		}
		totalBytes += uint64(len(buf))
		k.Relations = append(k.Relations, rel)
		s.log.Debug("relation loaded",
			zap.String("relation", meta.name),
			zap.Int("arity", meta.arity),
			zap.Int("records", meta.records))
	}

	s.log.Info("positive kb loaded",
		zap.String("kb", k.Name),
		zap.Int("relations", len(k.Relations)),
		zap.Int("records", k.TotalRecords()),
		zap.String("size", humanize.Bytes(totalBytes)),
		zap.Duration("elapsed", time.Since(start)))

	return k, nil
}

func (s *Store) readPositiveMeta(metaPath string) ([]relationMeta, error) {
	f, err := s.fs.Open(metaPath)
	if err != nil {
		return nil, fmt.Errorf("kb: %w", err)
	}
	defer f.Close()

	var metas []relationMeta
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		meta, err := parseMetaLine(text)
		if err != nil {
			return nil, fmt.Errorf("kb: %s:%d: %w", metaPath, line, err)
		}
		metas = append(metas, meta)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("kb: %s: %w", metaPath, err)
	}

	return metas, nil
}

// parseMetaLine parses "<name>\t<arity>\t<records>".
func parseMetaLine(text string) (relationMeta, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 3 {
		return relationMeta{}, fmt.Errorf("want 3 tab-separated fields, got %d: %w", len(fields), ErrMalformed)
	}
	arity, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || arity < 1 {
		return relationMeta{}, fmt.Errorf("relation %q arity %q: %w", fields[0], fields[1], ErrMalformed)
	}
	records, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil || records < 0 {
		return relationMeta{}, fmt.Errorf("relation %q record count %q: %w", fields[0], fields[2], ErrMalformed)
	}

	return relationMeta{name: fields[0], arity: arity, records: records}, nil
}

// DumpNegative writes nkb to <baseDir>/<nkb.Name>/. Records are written in
// slice order; weight files are written only for relations carrying weights.
//
// Errors:
//   - ErrArityMismatch when a record's length differs from its relation's arity.
//   - ErrWeightsMismatch when Weights is set but not parallel to Records.
func (s *Store) DumpNegative(baseDir string, nkb *NegativeKB) error {
	for relID, rel := range nkb.Relations {
		if rel.Arity < 1 {
			return fmt.Errorf("kb: negative relation %d: %w", relID, ErrInvalidArity)
		}
		for i, rec := range rel.Records {
			if len(rec) != rel.Arity {
				return fmt.Errorf("kb: negative relation %d record %d: %w", relID, i, ErrArityMismatch)
			}
		}
		if rel.Weights != nil && len(rel.Weights) != len(rel.Records) {
			return fmt.Errorf("kb: negative relation %d: %w", relID, ErrWeightsMismatch)
		}
	}

	dir := filepath.Join(baseDir, nkb.Name)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kb: %w", err)
	}

	if err := s.writeFile(filepath.Join(dir, NegativeMetaFile), func(w *IntWriter) {
		w.Int32(int32(len(nkb.Relations)))
		for _, rel := range nkb.Relations {
			w.Int32(int32(rel.Arity))
			w.Int32(int32(len(rel.Records)))
		}
	}); err != nil {
		return err
	}

	for relID, rel := range nkb.Relations {
		if err := s.writeFile(filepath.Join(dir, NegativeRelFile(relID)), func(w *IntWriter) {
			for _, rec := range rel.Records {
				w.Record(rec)
			}
		}); err != nil {
			return err
		}
		if rel.Weights == nil {
			continue
		}
		if err := s.writeFile(filepath.Join(dir, WeightFile(relID)), func(w *IntWriter) {
			for _, wt := range rel.Weights {
				w.Float32(wt)
			}
		}); err != nil {
			return err
		}
	}

	s.log.Info("negative kb dumped",
		zap.String("kb", nkb.Name),
		zap.String("dir", dir),
		zap.Int("relations", len(nkb.Relations)),
		zap.Int("records", nkb.TotalRecords()))

	return nil
}

func (s *Store) writeFile(name string, fill func(w *IntWriter)) error {
	f, err := s.fs.Create(name)
	if err != nil {
		return fmt.Errorf("kb: %w", err)
	}
	w := NewIntWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("kb: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("kb: close %s: %w", name, err)
	}

	return nil
}

// LoadNegative reads the negative KB <baseDir>/<name>/ written by
// DumpNegative. Weights are loaded when the weight file of a relation exists.
// Relation names are not part of the format and stay empty.
func (s *Store) LoadNegative(baseDir, name string) (*NegativeKB, error) {
	dir := filepath.Join(baseDir, name)
	metaPath := filepath.Join(dir, NegativeMetaFile)
	f, err := s.fs.Open(metaPath)
	if err != nil {
		return nil, fmt.Errorf("kb: %w", err)
	}
	defer f.Close()

	r := NewIntReader(f)
	n := int(r.Int32())
	if r.Err() == nil && n < 0 {
		return nil, fmt.Errorf("kb: %s: relation count %d: %w", metaPath, n, ErrMalformed)
	}
	nkb := &NegativeKB{Name: name}
	for relID := 0; relID < n && r.Err() == nil; relID++ {
		arity, count := int(r.Int32()), int(r.Int32())
		if r.Err() != nil {
			break
		}
		if arity < 1 || count < 0 {
			return nil, fmt.Errorf("kb: %s: relation %d (arity %d, records %d): %w", metaPath, relID, arity, count, ErrMalformed)
		}
		rel, err := s.loadNegativeRelation(dir, relID, arity, count)
		if err != nil {
			return nil, err
		}
		nkb.Relations = append(nkb.Relations, rel)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("kb: %s: %w", metaPath, err)
	}
	if !r.AtEOF() {
		return nil, fmt.Errorf("kb: %s: trailing bytes: %w", metaPath, ErrMalformed)
	}

	return nkb, nil
}

func (s *Store) loadNegativeRelation(dir string, relID, arity, count int) (NegativeRelation, error) {
	relPath := filepath.Join(dir, NegativeRelFile(relID))
	buf, err := afero.ReadFile(s.fs, relPath)
	if err != nil {
		return NegativeRelation{}, fmt.Errorf("kb: %w", err)
	}
	if err := checkSize(int64(len(buf)), int64(count)*int64(arity)*IntSize); err != nil {
		return NegativeRelation{}, fmt.Errorf("kb: %s: %w", relPath, err)
	}
	rel := NegativeRelation{Arity: arity, Records: decodeRecords(buf, arity, count)}

	wtPath := filepath.Join(dir, WeightFile(relID))
	wbuf, err := afero.ReadFile(s.fs, wtPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return rel, nil
	case err != nil:
		return NegativeRelation{}, fmt.Errorf("kb: %w", err)
	}
	if err := checkSize(int64(len(wbuf)), int64(count)*IntSize); err != nil {
		return NegativeRelation{}, fmt.Errorf("kb: %s: %w", wtPath, err)
	}
	wr := NewIntReader(bytes.NewReader(wbuf))
	rel.Weights = make([]float32, count)
	for i := range rel.Weights {
		rel.Weights[i] = wr.Float32()
	}

	return rel, nil
}
