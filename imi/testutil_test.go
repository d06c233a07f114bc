package imi

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"imivdb/store"
)

// writeVectorStore writes rows to a temp file and opens it as a
// FileVectorStore, closing it automatically at test end.
func writeVectorStore(t *testing.T, rows [][]float32, dim int) *store.FileVectorStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectors.dat")
	w, err := store.NewWriter(path, dim)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, w.WriteVector(r))
	}
	require.NoError(t, w.Close())

	vs, err := store.NewFileVectorStore(path, dim)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vs.Close() })
	return vs
}

// newIDRunFixture writes an in-memory id run ([]uint32) to a temp file and
// opens it as an idRunFile, closing it automatically at test end.
func newIDRunFixture(t *testing.T, ids []uint32) *idRunFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "concatenated_values.bin")
	f, err := createIDRunFile(path, ids)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}
