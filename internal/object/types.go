package object

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the content-addressed object surface. It is append-only: no
// update or delete is exposed, matching the immutability of stored blobs
// and commit records. Content is opaque bytes; callers serialize their own
// structured records.
type Store interface {
	Put(content []byte) (string, error)
	Get(hash string) ([]byte, error)
	Exists(hash string) bool
	Verify(hash string) error
	List() ([]Meta, error)
}

// Meta describes one stored object, kept in the badger database alongside
// the raw content files.
type Meta struct {
	Hash      string    `json:"hash"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type FileStore struct {
	root  string // the objects directory
	db    *badger.DB
	cache *lru.Cache[string, []byte]
}
