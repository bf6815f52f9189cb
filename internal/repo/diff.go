// internal/repo/diff.go
package repo

import (
	"trove/internal/commit"
	"trove/internal/diff"
)

// File diff statuses as surfaced to the presentation layer.
const (
	StatusInitial  = "initial"  // root commit, no prior version to compare
	StatusNew      = "new"      // path absent from the parent commit
	StatusModified = "modified" // compared against the parent's blob
)

// FileDiff is the per-file outcome of ShowCommitDiff. Diff is set only for
// StatusModified.
type FileDiff struct {
	Path   string
	Status string
	Diff   *diff.Result
}

// ShowCommitDiff compares one commit against its parent, file by file in
// stored order. A commit with zero files yields no output. A path listed
// twice is processed twice, independently.
func (r *Repository) ShowCommitDiff(commitHash string) ([]FileDiff, error) {
	c, err := r.Commits.Get(commitHash)
	if err != nil {
		return nil, err
	}

	var results []FileDiff

	for _, entry := range c.Files {
		content, err := r.Objects.Get(entry.Hash)
		if err != nil {
			return nil, err
		}

		if c.Parent == nil {
			results = append(results, FileDiff{
				Path:   entry.Path,
				Status: StatusInitial,
			})
			continue
		}

		parent, err := r.Commits.Get(*c.Parent)
		if err != nil {
			return nil, err
		}

		prevHash, ok := findPath(parent, entry.Path)
		if !ok {
			results = append(results, FileDiff{
				Path:   entry.Path,
				Status: StatusNew,
			})
			continue
		}

		prevContent, err := r.Objects.Get(prevHash)
		if err != nil {
			return nil, err
		}

		results = append(results, FileDiff{
			Path:   entry.Path,
			Status: StatusModified,
			Diff:   r.Diff.DiffLines(prevContent, content),
		})
	}

	return results, nil
}

// findPath returns the hash recorded for path in c, first match in stored
// order.
func findPath(c *commit.Commit, path string) (string, bool) {
	for _, e := range c.Files {
		if e.Path == path {
			return e.Hash, true
		}
	}
	return "", false
}
