package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trove/internal/repo"
)

func setupWatcher(t *testing.T) (*Watcher, *repo.Repository) {
	t.Helper()

	r, err := repo.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	w, err := New(r, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	return w, r
}

func TestShouldIgnore(t *testing.T) {
	w, _ := setupWatcher(t)

	assert.True(t, w.ShouldIgnore(""))
	assert.True(t, w.ShouldIgnore("."))
	assert.True(t, w.ShouldIgnore(filepath.Join(".trove", "HEAD")))
	assert.True(t, w.ShouldIgnore(filepath.Join("node_modules", "pkg", "x.js")))
	assert.True(t, w.ShouldIgnore(".hidden"))
	assert.False(t, w.ShouldIgnore("main.go"))
	assert.False(t, w.ShouldIgnore(filepath.Join("src", "main.go")))
}

func TestHandleEventStagesFile(t *testing.T) {
	w, r := setupWatcher(t)

	path := filepath.Join(r.Root, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0644))

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})

	staged, err := r.Staged()
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, "a.txt", staged[0].Path)
}

func TestHandleEventSkipsIgnored(t *testing.T) {
	w, r := setupWatcher(t)

	path := filepath.Join(r.Root, ".secret")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})

	staged, err := r.Staged()
	require.NoError(t, err)
	assert.Empty(t, staged)
}
