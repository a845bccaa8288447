// SPDX-License-Identifier: MIT

package kb_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/negkb/kb"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// writePositive lays out a positive KB directory on fsys.
func writePositive(t *testing.T, fsys afero.Fs, dir, meta string, rels ...[]int32) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(dir, 0o755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, kb.PositiveMetaFile), []byte(meta), 0o644))
	for i, vals := range rels {
		var buf bytes.Buffer
		w := kb.NewIntWriter(&buf)
		for _, v := range vals {
			w.Int32(v)
		}
		require.NoError(t, w.Flush())
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, kb.PositiveRelFile(i)), buf.Bytes(), 0o644))
	}
}

func TestLoadPositive(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePositive(t, fsys, "/data/family", "parent\t2\t2\r\nsex\t1\t1\n",
		[]int32{3, 1, 1, 2},
		[]int32{4},
	)

	store := kb.NewStore(fsys, kb.WithLogger(zaptest.NewLogger(t)))
	k, err := store.LoadPositive("/data/family")
	require.NoError(t, err)
	require.Equal(t, "family", k.Name)
	require.Len(t, k.Relations, 2)

	parent := k.Relations[0]
	require.Equal(t, "parent", parent.Name())
	require.Equal(t, 2, parent.Arity())
	require.Equal(t, kb.Record{1, 2}, parent.Record(0))
	require.Equal(t, kb.Record{3, 1}, parent.Record(1))

	require.Equal(t, "sex", k.Relations[1].Name())
	require.Equal(t, 3, k.TotalRecords())
}

func TestLoadPositive_Errors(t *testing.T) {
	t.Run("missing meta", func(t *testing.T) {
		_, err := kb.NewStore(afero.NewMemMapFs()).LoadPositive("/nope")
		require.Error(t, err)
	})
	t.Run("bad meta line", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writePositive(t, fsys, "/k", "parent\ttwo\t1\n", []int32{1, 2})
		_, err := kb.NewStore(fsys).LoadPositive("/k")
		require.ErrorIs(t, err, kb.ErrMalformed)
	})
	t.Run("truncated", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writePositive(t, fsys, "/k", "parent\t2\t2\n", []int32{1, 2, 3})
		_, err := kb.NewStore(fsys).LoadPositive("/k")
		require.ErrorIs(t, err, kb.ErrTruncated)
	})
	t.Run("trailing bytes", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writePositive(t, fsys, "/k", "parent\t2\t1\n", []int32{1, 2, 3})
		_, err := kb.NewStore(fsys).LoadPositive("/k")
		require.ErrorIs(t, err, kb.ErrMalformed)
	})
	t.Run("zero constant", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writePositive(t, fsys, "/k", "parent\t2\t1\n", []int32{0, 2})
		_, err := kb.NewStore(fsys).LoadPositive("/k")
		require.ErrorIs(t, err, kb.ErrConstantOutOfRange)
	})
}

func TestNegativeRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := kb.NewStore(fsys)
	nkb := &kb.NegativeKB{
		Name: "family_neg",
		Relations: []kb.NegativeRelation{
			{Arity: 2, Records: []kb.Record{{3, 2}, {1, 1}}, Weights: []float32{0.5, 2}},
			{Arity: 1},
			{Arity: 3, Records: []kb.Record{{1, 2, 3}}},
		},
	}
	require.NoError(t, store.DumpNegative("/out", nkb))

	exists, err := afero.Exists(fsys, "/out/family_neg/2.wt")
	require.NoError(t, err)
	require.False(t, exists)

	got, err := store.LoadNegative("/out", "family_neg")
	require.NoError(t, err)
	require.Len(t, got.Relations, 3)
	require.Equal(t, []kb.Record{{3, 2}, {1, 1}}, got.Relations[0].Records)
	require.Equal(t, []float32{0.5, 2}, got.Relations[0].Weights)
	require.Equal(t, 1, got.Relations[1].Arity)
	require.Empty(t, got.Relations[1].Records)
	require.Nil(t, got.Relations[2].Weights)
	require.Equal(t, 3, got.Relations[2].Arity)
}

func TestNegativeMetaLayout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	nkb := &kb.NegativeKB{Name: "n", Relations: []kb.NegativeRelation{{Arity: 2, Records: []kb.Record{{1, 2}}}, {Arity: 1}}}
	require.NoError(t, kb.NewStore(fsys).DumpNegative("/o", nkb))

	raw, err := afero.ReadFile(fsys, "/o/n/Relations.dat")
	require.NoError(t, err)
	r := kb.NewIntReader(bytes.NewReader(raw))
	require.Equal(t, []int32{2, 2, 1, 1, 0}, []int32{r.Int32(), r.Int32(), r.Int32(), r.Int32(), r.Int32()})
	require.NoError(t, r.Err())
	require.True(t, r.AtEOF())
}

func TestDumpNegative_Validation(t *testing.T) {
	store := kb.NewStore(afero.NewMemMapFs())

	err := store.DumpNegative("/o", &kb.NegativeKB{Name: "n", Relations: []kb.NegativeRelation{{Arity: 2, Records: []kb.Record{{1}}}}})
	require.ErrorIs(t, err, kb.ErrArityMismatch)

	err = store.DumpNegative("/o", &kb.NegativeKB{Name: "n", Relations: []kb.NegativeRelation{{Arity: 1, Records: []kb.Record{{1}}, Weights: []float32{}}}})
	require.ErrorIs(t, err, kb.ErrWeightsMismatch)

	err = store.DumpNegative("/o", &kb.NegativeKB{Name: "n", Relations: []kb.NegativeRelation{{Arity: 0}}})
	require.ErrorIs(t, err, kb.ErrInvalidArity)
}

func TestLoadNegative_Truncated(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := kb.NewStore(fsys)
	nkb := &kb.NegativeKB{Name: "n", Relations: []kb.NegativeRelation{{Arity: 2, Records: []kb.Record{{1, 2}, {2, 1}}}}}
	require.NoError(t, store.DumpNegative("/o", nkb))
	require.NoError(t, afero.WriteFile(fsys, "/o/n/0.neg", []byte{1, 0, 0, 0}, 0o644))

	_, err := store.LoadNegative("/o", "n")
	require.ErrorIs(t, err, kb.ErrTruncated)
}

func TestIntReader_ShortRead(t *testing.T) {
	r := kb.NewIntReader(bytes.NewReader([]byte{1, 0}))
	require.Zero(t, r.Int32())
	require.ErrorIs(t, r.Err(), kb.ErrTruncated)
	require.Zero(t, r.Int32())
}
