// internal/repo/repo.go
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"trove/internal/commit"
	"trove/internal/diff"
	verrors "trove/internal/errors"
	"trove/internal/index"
	"trove/internal/object"
	shared "trove/shared/types"
)

// TroveDir is the repository state directory created under the work tree.
const TroveDir = ".trove"

// Repository is the handle every operation goes through; there is no
// ambient global state. All reads and writes route through the object
// store, staging index, and commit graph it owns.
type Repository struct {
	Root    string // Working tree root
	Dir     string // .trove directory
	DB      *badger.DB
	Objects *object.FileStore
	Index   *index.Index
	Commits *commit.Graph
	Diff    *diff.Engine
	Logger  *zap.Logger
}

// Initialize creates the repository layout. Idempotent: calling it on an
// already-initialized repository touches nothing that exists, so no data
// is lost.
func Initialize(root string) error {
	troveDir := filepath.Join(root, TroveDir)

	dirs := []string{
		troveDir,
		filepath.Join(troveDir, "objects"),
		filepath.Join(troveDir, "db"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return verrors.IO(fmt.Sprintf("creating directory %s", dir), err)
		}
	}

	return nil
}

// New opens the repository rooted at path, initializing the layout first.
func New(path string, logger *zap.Logger) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, verrors.IO(fmt.Sprintf("resolving root %s", path), err)
	}

	if err := Initialize(absPath); err != nil {
		return nil, err
	}

	troveDir := filepath.Join(absPath, TroveDir)

	opts := badger.DefaultOptions(filepath.Join(troveDir, "db"))
	opts.Logger = nil // Disable logging noise

	db, err := badger.Open(opts)
	if err != nil {
		return nil, verrors.IO("opening metadata database", err)
	}

	objects, err := object.NewFileStore(filepath.Join(troveDir, "objects"), db, 1000)
	if err != nil {
		db.Close()
		return nil, err
	}

	r := &Repository{
		Root:    absPath,
		Dir:     troveDir,
		DB:      db,
		Objects: objects,
		Index:   index.New(filepath.Join(troveDir, "index")),
		Commits: commit.NewGraph(objects, filepath.Join(troveDir, "HEAD")),
		Diff:    diff.NewEngine(),
		Logger:  logger,
	}

	return r, nil
}

// Add reads the working file at path, stores its content as a blob, and
// stages the (path, digest) pair. The blob write completes before the
// index references its digest.
func (r *Repository) Add(path string) (string, error) {
	relPath := path
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(r.Root, path)
		if err != nil {
			return "", verrors.IO(fmt.Sprintf("resolving path %s", path), err)
		}
		relPath = rel
	}
	relPath = filepath.ToSlash(filepath.Clean(relPath))

	content, err := os.ReadFile(filepath.Join(r.Root, relPath))
	if err != nil {
		return "", verrors.IO(fmt.Sprintf("reading %s", relPath), err)
	}

	hash, err := r.Objects.Put(content)
	if err != nil {
		return "", err
	}

	if err := r.Index.Stage(relPath, hash); err != nil {
		return "", err
	}

	r.Logger.Debug("staged file",
		zap.String("path", relPath),
		zap.String("hash", hash))

	return hash, nil
}

// Commit snapshots the staging area into a new commit and clears it.
// Committing with nothing staged is allowed and yields an empty commit.
// After success HEAD names the returned digest and the staging area is
// empty.
func (r *Repository) Commit(message string) (string, error) {
	staged, err := r.Index.Snapshot()
	if err != nil {
		return "", err
	}

	digest, err := r.Commits.Create(message, staged)
	if err != nil {
		return "", err
	}

	if err := r.Index.Clear(); err != nil {
		return "", err
	}

	r.Logger.Info("created commit",
		zap.String("digest", digest),
		zap.Int("files", len(staged)))

	return digest, nil
}

// Log returns the history from HEAD to the root commit, newest first. A
// repository with no commits yields an empty log.
func (r *Repository) Log() ([]commit.Logged, error) {
	head, err := r.Commits.Head()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, nil
	}
	return r.Commits.Log(head)
}

// Staged exposes the current staging snapshot.
func (r *Repository) Staged() ([]shared.Entry, error) {
	return r.Index.Snapshot()
}

// Verify re-hashes every object recorded in the metadata database and
// returns a description of each corrupted or missing object.
func (r *Repository) Verify() ([]string, error) {
	metas, err := r.Objects.List()
	if err != nil {
		return nil, err
	}

	var issues []string
	for _, m := range metas {
		if err := r.Objects.Verify(m.Hash); err != nil {
			issues = append(issues, err.Error())
		}
	}
	return issues, nil
}

// Close releases the metadata database.
func (r *Repository) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	if err := r.DB.Close(); err != nil {
		return fmt.Errorf("closing metadata database: %w", err)
	}
	return nil
}
