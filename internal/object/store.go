// internal/object/store.go
package object

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	verrors "trove/internal/errors"
)

const metaPrefix = "object:"

// Digest computes the content fingerprint every stored object is named by.
// Deterministic, no side effects.
func Digest(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func NewFileStore(root string, db *badger.DB, cacheSize int) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, verrors.IO("creating objects directory", err)
	}

	if cacheSize <= 0 {
		cacheSize = 1000
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &FileStore{
		root:  root,
		db:    db,
		cache: cache,
	}, nil
}

// Put stores content under its digest. Re-storing identical content is a
// no-op write, safe to call repeatedly.
func (s *FileStore) Put(content []byte) (string, error) {
	if content == nil {
		content = []byte{} // Empty objects are valid
	}

	hash := Digest(content)
	path := s.objectPath(hash)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return "", verrors.IO("writing object", err)
		}
		if err := s.storeMeta(Meta{
			Hash:      hash,
			Size:      int64(len(content)),
			CreatedAt: time.Now(),
		}); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", verrors.IO("checking object", err)
	}

	s.cache.Add(hash, content)
	return hash, nil
}

func (s *FileStore) Get(hash string) ([]byte, error) {
	if !validHash(hash) {
		return nil, verrors.NotFound("object", hash)
	}

	if content, ok := s.cache.Get(hash); ok {
		return content, nil
	}

	content, err := os.ReadFile(s.objectPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, verrors.NotFound("object", hash)
		}
		return nil, verrors.IO("reading object", err)
	}

	s.cache.Add(hash, content)
	return content, nil
}

func (s *FileStore) Exists(hash string) bool {
	if !validHash(hash) {
		return false
	}
	if s.cache.Contains(hash) {
		return true
	}
	_, err := os.Stat(s.objectPath(hash))
	return err == nil
}

// Verify re-hashes stored content and reports corruption.
func (s *FileStore) Verify(hash string) error {
	content, err := s.Get(hash)
	if err != nil {
		return err
	}
	if Digest(content) != hash {
		return verrors.Malformed(fmt.Sprintf("object %s content hash mismatch", hash), nil)
	}
	return nil
}

// List enumerates stored objects from the metadata database.
func (s *FileStore) List() ([]Meta, error) {
	var metas []Meta

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var m Meta
				if err := json.Unmarshal(val, &m); err != nil {
					return verrors.Malformed("decoding object metadata", err)
				}
				metas = append(metas, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return metas, nil
}

func (s *FileStore) objectPath(hash string) string {
	return filepath.Join(s.root, hash)
}

func (s *FileStore) storeMeta(meta Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling object metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaPrefix+meta.Hash), data)
	})
	if err != nil {
		return verrors.IO("storing object metadata", err)
	}
	return nil
}

func validHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
