package object

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "trove/internal/errors"
)

func setupStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable logging for tests

	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	store, err := NewFileStore(dir, db, 10)
	require.NoError(t, err)

	return store, dir
}

func TestFileStore(t *testing.T) {
	t.Run("ContentAddressing", func(t *testing.T) {
		store, _ := setupStore(t)

		content := []byte("hello\n")
		h1, err := store.Put(content)
		require.NoError(t, err)
		assert.Equal(t, Digest(content), h1)
		assert.Len(t, h1, 64)

		h2, err := store.Put(content)
		require.NoError(t, err)
		assert.Equal(t, h1, h2)

		got, err := store.Get(h1)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("IdempotentPut", func(t *testing.T) {
		store, dir := setupStore(t)

		_, err := store.Put([]byte("same content"))
		require.NoError(t, err)
		_, err = store.Put([]byte("same content"))
		require.NoError(t, err)

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("EmptyContent", func(t *testing.T) {
		store, _ := setupStore(t)

		hash, err := store.Put(nil)
		require.NoError(t, err)

		got, err := store.Get(hash)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		store, _ := setupStore(t)

		_, err := store.Get(strings.Repeat("ab", 32))
		require.Error(t, err)
		assert.True(t, verrors.IsNotFound(err))

		// Not a digest at all
		_, err = store.Get("nonsense")
		require.Error(t, err)
		assert.True(t, verrors.IsNotFound(err))
	})

	t.Run("Exists", func(t *testing.T) {
		store, _ := setupStore(t)

		hash, err := store.Put([]byte("present"))
		require.NoError(t, err)

		assert.True(t, store.Exists(hash))
		assert.False(t, store.Exists(strings.Repeat("cd", 32)))
		assert.False(t, store.Exists(""))
	})

	t.Run("VerifyDetectsCorruption", func(t *testing.T) {
		store, dir := setupStore(t)

		hash, err := store.Put([]byte("good content"))
		require.NoError(t, err)
		require.NoError(t, store.Verify(hash))

		// Tamper with an object file behind the store's back. The name
		// claims one digest, the bytes hash to another.
		evil := Digest([]byte("unrelated"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, evil), []byte("tampered"), 0644))

		err = store.Verify(evil)
		require.Error(t, err)
		assert.Equal(t, verrors.ErrorTypeMalformed, verrors.TypeOf(err))
	})

	t.Run("ListMetadata", func(t *testing.T) {
		store, _ := setupStore(t)

		h1, err := store.Put([]byte("one"))
		require.NoError(t, err)
		h2, err := store.Put([]byte("two"))
		require.NoError(t, err)

		metas, err := store.List()
		require.NoError(t, err)
		require.Len(t, metas, 2)

		byHash := map[string]Meta{}
		for _, m := range metas {
			byHash[m.Hash] = m
		}
		assert.Contains(t, byHash, h1)
		assert.Contains(t, byHash, h2)
		assert.Equal(t, int64(3), byHash[h1].Size)
		assert.False(t, byHash[h1].CreatedAt.IsZero())
	})
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest([]byte("x")), Digest([]byte("x")))
	assert.NotEqual(t, Digest([]byte("x")), Digest([]byte("y")))
	assert.Len(t, Digest(nil), 64)
}
