// internal/commit/commit.go
package commit

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	verrors "trove/internal/errors"
	"trove/internal/object"
	shared "trove/shared/types"
	"trove/shared/utils"
)

// Commit is one immutable history record. Its identity is the digest of its
// own serialized bytes, so identical file sets with different messages or
// timestamps are distinct objects. Field order here is the wire order.
type Commit struct {
	Message   string         `json:"message"`
	Parent    *string        `json:"parent"`
	Timestamp string         `json:"timestamp"`
	Files     []shared.Entry `json:"files"`
}

// Graph creates commits and traverses the linear history. HEAD is a single
// file holding the latest commit digest; empty or absent means no commits.
type Graph struct {
	store    object.Store
	headPath string
	now      func() time.Time
}

func NewGraph(store object.Store, headPath string) *Graph {
	return &Graph{
		store:    store,
		headPath: headPath,
		now:      time.Now,
	}
}

// Head returns the current HEAD digest, or "" when the repository has no
// commits yet. An absent HEAD file is the fresh-repository case, not an
// error.
func (g *Graph) Head() (string, error) {
	data, err := os.ReadFile(g.headPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", verrors.IO("reading HEAD", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Create builds a commit from the staged entries, stores it, and advances
// HEAD. An empty file list is allowed and produces an empty commit. The
// commit object is durably written before HEAD references it; the HEAD
// swap itself is an atomic rename.
func (g *Graph) Create(message string, files []shared.Entry) (string, error) {
	head, err := g.Head()
	if err != nil {
		return "", err
	}

	var parent *string
	if head != "" {
		parent = &head
	}

	if files == nil {
		files = []shared.Entry{}
	}

	c := Commit{
		Message:   message,
		Parent:    parent,
		Timestamp: g.now().Format(time.RFC3339),
		Files:     files,
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", verrors.Malformed("encoding commit record", err)
	}

	digest, err := g.store.Put(data)
	if err != nil {
		return "", err
	}

	if err := utils.WriteFileAtomic(g.headPath, []byte(digest), 0644); err != nil {
		return "", verrors.IO("updating HEAD", err)
	}

	return digest, nil
}

// SetHead points HEAD at digest directly. Normal commits advance HEAD via
// Create; this exists for whole-repository restore.
func (g *Graph) SetHead(digest string) error {
	if err := utils.WriteFileAtomic(g.headPath, []byte(digest), 0644); err != nil {
		return verrors.IO("updating HEAD", err)
	}
	return nil
}

// Get resolves a digest to a commit record.
func (g *Graph) Get(digest string) (*Commit, error) {
	data, err := g.store.Get(digest)
	if err != nil {
		if verrors.IsNotFound(err) {
			return nil, verrors.NotFound("commit", digest)
		}
		return nil, err
	}

	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, verrors.Malformed("commit record "+digest+" is not well-formed", err)
	}
	return &c, nil
}

// Walk follows parent links from start until the root commit, invoking fn
// for each commit in order. The chain is finite: parent always references
// an earlier digest or is null. A missing digest mid-chain reports the
// corruption as not-found.
func (g *Graph) Walk(start string, fn func(digest string, c *Commit) error) error {
	for digest := start; digest != ""; {
		c, err := g.Get(digest)
		if err != nil {
			return err
		}
		if err := fn(digest, c); err != nil {
			return err
		}
		if c.Parent == nil {
			return nil
		}
		digest = *c.Parent
	}
	return nil
}

// Logged pairs a commit with its digest for presentation.
type Logged struct {
	Digest string
	Commit *Commit
}

// Log materializes the walk from start, newest first.
func (g *Graph) Log(start string) ([]Logged, error) {
	var out []Logged
	err := g.Walk(start, func(digest string, c *Commit) error {
		out = append(out, Logged{Digest: digest, Commit: c})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
