// internal/index/index.go
package index

import (
	"encoding/json"
	"os"

	verrors "trove/internal/errors"
	shared "trove/shared/types"
	"trove/shared/utils"
)

// Index is the staging area: the ordered list of (path, hash) pairs queued
// for the next commit. Persisted as one JSON array; every mutation is a
// whole-file replace, so a single writer is assumed.
type Index struct {
	path string
}

func New(path string) *Index {
	return &Index{path: path}
}

// Stage appends an entry. Duplicate paths are NOT collapsed: staging the
// same path twice records two entries, and a later commit carries both.
func (idx *Index) Stage(path, hash string) error {
	entries, err := idx.Snapshot()
	if err != nil {
		return err
	}
	entries = append(entries, shared.Entry{Path: path, Hash: hash})
	return idx.write(entries)
}

// Snapshot returns the current staged entries in order. A missing index
// file reads as empty.
func (idx *Index) Snapshot() ([]shared.Entry, error) {
	data, err := os.ReadFile(idx.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []shared.Entry{}, nil
		}
		return nil, verrors.IO("reading index", err)
	}

	if len(data) == 0 {
		return []shared.Entry{}, nil
	}

	var entries []shared.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, verrors.Malformed("index is not a valid staging list", err)
	}
	if entries == nil {
		entries = []shared.Entry{}
	}
	return entries, nil
}

// Clear resets the staging area. Called after a successful commit.
func (idx *Index) Clear() error {
	return idx.write([]shared.Entry{})
}

func (idx *Index) write(entries []shared.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return verrors.Malformed("encoding staging list", err)
	}
	if err := utils.WriteFileAtomic(idx.path, data, 0644); err != nil {
		return verrors.IO("writing index", err)
	}
	return nil
}
