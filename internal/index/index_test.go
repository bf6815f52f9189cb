package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "trove/internal/errors"
)

func tempIndex(t *testing.T) *Index {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "index"))
}

func TestIndex(t *testing.T) {
	t.Run("MissingFileReadsEmpty", func(t *testing.T) {
		idx := tempIndex(t)

		entries, err := idx.Snapshot()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("StageAndSnapshot", func(t *testing.T) {
		idx := tempIndex(t)

		require.NoError(t, idx.Stage("a.txt", "hash-a"))
		require.NoError(t, idx.Stage("b.txt", "hash-b"))

		entries, err := idx.Snapshot()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "a.txt", entries[0].Path)
		assert.Equal(t, "hash-a", entries[0].Hash)
		assert.Equal(t, "b.txt", entries[1].Path)
	})

	t.Run("DuplicatePathsAccumulate", func(t *testing.T) {
		idx := tempIndex(t)

		// Staging the same path twice records two entries; the index
		// never dedupes.
		require.NoError(t, idx.Stage("a.txt", "hash-1"))
		require.NoError(t, idx.Stage("a.txt", "hash-2"))

		entries, err := idx.Snapshot()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "hash-1", entries[0].Hash)
		assert.Equal(t, "hash-2", entries[1].Hash)
	})

	t.Run("Clear", func(t *testing.T) {
		idx := tempIndex(t)

		require.NoError(t, idx.Stage("a.txt", "hash-a"))
		require.NoError(t, idx.Clear())

		entries, err := idx.Snapshot()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("PersistsAcrossInstances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index")

		first := New(path)
		require.NoError(t, first.Stage("a.txt", "hash-a"))

		second := New(path)
		entries, err := second.Snapshot()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.txt", entries[0].Path)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index")
		require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

		_, err := New(path).Snapshot()
		require.Error(t, err)
		assert.Equal(t, verrors.ErrorTypeMalformed, verrors.TypeOf(err))
	})
}
