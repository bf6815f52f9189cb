// internal/diff/diff.go
package diff

import (
	"bytes"
)

// Line is a single line in a diff with its kind and content
type Line struct {
	Type    LineType
	Content string
	OldNum  int
	NewNum  int
}

// LineType indicates whether a line was added, removed, or is unchanged
type LineType int

const (
	Unchanged LineType = iota
	Addition
	Deletion
)

// Result contains the complete diff information
type Result struct {
	Lines []Line
	Stats struct {
		Additions int
		Deletions int
		Changes   int
	}
}

// Engine provides diffing capabilities
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// DiffLines generates a line-by-line diff between two contents using a
// longest-common-subsequence edit script. Lines come out in document
// order, with removed lines ahead of the added lines that replace them.
// Equal inputs produce a single unchanged run covering every line.
func (e *Engine) DiffLines(oldContent, newContent []byte) *Result {
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)

	lcs := e.computeLCS(oldLines, newLines)

	result := &Result{}
	result.Lines = e.backtrack(oldLines, newLines, lcs)

	for _, line := range result.Lines {
		switch line.Type {
		case Addition:
			result.Stats.Additions++
		case Deletion:
			result.Stats.Deletions++
		}
	}
	result.Stats.Changes = result.Stats.Additions + result.Stats.Deletions

	return result
}

// computeLCS builds the longest-common-subsequence length matrix
func (e *Engine) computeLCS(oldLines, newLines [][]byte) [][]int {
	matrix := make([][]int, len(oldLines)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(newLines)+1)
	}

	for i := 1; i <= len(oldLines); i++ {
		for j := 1; j <= len(newLines); j++ {
			if bytes.Equal(oldLines[i-1], newLines[j-1]) {
				matrix[i][j] = matrix[i-1][j-1] + 1
			} else {
				matrix[i][j] = max(matrix[i-1][j], matrix[i][j-1])
			}
		}
	}

	return matrix
}

// backtrack walks the matrix from the end, collecting the edit script in
// reverse; reversing it leaves deletions ahead of additions in each
// changed region.
func (e *Engine) backtrack(oldLines, newLines [][]byte, lcs [][]int) []Line {
	var reversed []Line

	i, j := len(oldLines), len(newLines)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && bytes.Equal(oldLines[i-1], newLines[j-1]):
			reversed = append(reversed, Line{
				Type:    Unchanged,
				Content: string(oldLines[i-1]),
				OldNum:  i,
				NewNum:  j,
			})
			i--
			j--
		case j > 0 && (i == 0 || lcs[i][j-1] >= lcs[i-1][j]):
			reversed = append(reversed, Line{
				Type:    Addition,
				Content: string(newLines[j-1]),
				NewNum:  j,
			})
			j--
		default:
			reversed = append(reversed, Line{
				Type:    Deletion,
				Content: string(oldLines[i-1]),
				OldNum:  i,
			})
			i--
		}
	}

	lines := make([]Line, 0, len(reversed))
	for k := len(reversed) - 1; k >= 0; k-- {
		lines = append(lines, reversed[k])
	}
	return lines
}

func splitLines(content []byte) [][]byte {
	return bytes.Split(bytes.TrimSuffix(content, []byte{'\n'}), []byte{'\n'})
}

// Format returns a plain text representation of the diff
func (r *Result) Format() string {
	var buf bytes.Buffer

	for _, line := range r.Lines {
		switch line.Type {
		case Addition:
			buf.WriteString("+ ")
		case Deletion:
			buf.WriteString("- ")
		case Unchanged:
			buf.WriteString("  ")
		}
		buf.WriteString(line.Content)
		buf.WriteString("\n")
	}

	return buf.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
