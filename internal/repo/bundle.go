// internal/repo/bundle.go
package repo

import (
	"fmt"

	"trove/internal/bundle"
	verrors "trove/internal/errors"
)

// Bundle exports the full repository state (HEAD, all objects, staging
// index) to a single compressed archive at path. A local backup, not a
// transport format.
func (r *Repository) Bundle(path string) error {
	head, err := r.Commits.Head()
	if err != nil {
		return err
	}

	staged, err := r.Index.Snapshot()
	if err != nil {
		return err
	}

	metas, err := r.Objects.List()
	if err != nil {
		return err
	}

	m := &bundle.Manifest{
		Head:  head,
		Index: staged,
	}
	for _, meta := range metas {
		content, err := r.Objects.Get(meta.Hash)
		if err != nil {
			return err
		}
		m.Objects = append(m.Objects, bundle.Object{
			Hash:    meta.Hash,
			Content: content,
		})
	}

	return bundle.Write(path, m)
}

// Restore replays a bundle into this repository. Every object is written
// back through the store, so its digest is recomputed; a mismatch against
// the recorded hash aborts the restore.
func (r *Repository) Restore(path string) error {
	m, err := bundle.Read(path)
	if err != nil {
		return err
	}

	for _, obj := range m.Objects {
		hash, err := r.Objects.Put(obj.Content)
		if err != nil {
			return err
		}
		if hash != obj.Hash {
			return verrors.Malformed(
				fmt.Sprintf("bundle object %s hashes to %s", obj.Hash, hash), nil)
		}
	}

	if m.Head != "" {
		if !r.Objects.Exists(m.Head) {
			return verrors.NotFound("bundle HEAD commit", m.Head)
		}
		if err := r.Commits.SetHead(m.Head); err != nil {
			return err
		}
	}

	if err := r.Index.Clear(); err != nil {
		return err
	}
	for _, e := range m.Index {
		if err := r.Index.Stage(e.Path, e.Hash); err != nil {
			return err
		}
	}

	return nil
}
