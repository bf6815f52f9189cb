package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffLines(t *testing.T) {
	engine := NewEngine()

	t.Run("EqualInputs", func(t *testing.T) {
		content := []byte("one\ntwo\nthree\n")
		result := engine.DiffLines(content, content)

		require.Len(t, result.Lines, 3)
		for _, line := range result.Lines {
			assert.Equal(t, Unchanged, line.Type)
		}
		assert.Equal(t, 0, result.Stats.Changes)
	})

	t.Run("AppendedLine", func(t *testing.T) {
		result := engine.DiffLines([]byte("hello\n"), []byte("hello\nworld\n"))

		require.Len(t, result.Lines, 2)
		assert.Equal(t, Unchanged, result.Lines[0].Type)
		assert.Equal(t, "hello", result.Lines[0].Content)
		assert.Equal(t, Addition, result.Lines[1].Type)
		assert.Equal(t, "world", result.Lines[1].Content)

		assert.Equal(t, 1, result.Stats.Additions)
		assert.Equal(t, 0, result.Stats.Deletions)
	})

	t.Run("RemovedBeforeAdded", func(t *testing.T) {
		result := engine.DiffLines([]byte("a\nb\nc\n"), []byte("a\nx\nc\n"))

		require.Len(t, result.Lines, 4)
		assert.Equal(t, Unchanged, result.Lines[0].Type)
		assert.Equal(t, Deletion, result.Lines[1].Type)
		assert.Equal(t, "b", result.Lines[1].Content)
		assert.Equal(t, Addition, result.Lines[2].Type)
		assert.Equal(t, "x", result.Lines[2].Content)
		assert.Equal(t, Unchanged, result.Lines[3].Type)

		assert.Equal(t, 2, result.Stats.Changes)
	})

	t.Run("RemovedLine", func(t *testing.T) {
		result := engine.DiffLines([]byte("a\nb\nc\n"), []byte("a\nc\n"))

		require.Len(t, result.Lines, 3)
		assert.Equal(t, Unchanged, result.Lines[0].Type)
		assert.Equal(t, Deletion, result.Lines[1].Type)
		assert.Equal(t, "b", result.Lines[1].Content)
		assert.Equal(t, Unchanged, result.Lines[2].Type)
	})

	t.Run("LineNumbers", func(t *testing.T) {
		result := engine.DiffLines([]byte("a\nb\n"), []byte("a\nb\nc\n"))

		require.Len(t, result.Lines, 3)
		assert.Equal(t, 1, result.Lines[0].OldNum)
		assert.Equal(t, 1, result.Lines[0].NewNum)
		assert.Equal(t, 0, result.Lines[2].OldNum)
		assert.Equal(t, 3, result.Lines[2].NewNum)
	})

	t.Run("Format", func(t *testing.T) {
		result := engine.DiffLines([]byte("keep\nold\n"), []byte("keep\nnew\n"))

		assert.Equal(t, "  keep\n- old\n+ new\n", result.Format())
	})
}
