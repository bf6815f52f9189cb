// internal/bundle/bundle.go
package bundle

import (
	"encoding/json"
	"os"

	"github.com/klauspost/compress/zstd"

	verrors "trove/internal/errors"
	shared "trove/shared/types"
	"trove/shared/utils"
)

// Manifest is the full repository state carried by a bundle file: HEAD,
// every object, and the staging index. Object content rides as base64
// inside the JSON; the whole manifest is zstd-compressed on disk.
type Manifest struct {
	Head    string         `json:"head"`
	Index   []shared.Entry `json:"index"`
	Objects []Object       `json:"objects"`
}

// Object is one stored object, identified by its digest.
type Object struct {
	Hash    string `json:"hash"`
	Content []byte `json:"content"`
}

// Write serializes and compresses the manifest to path.
func Write(path string, m *Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return verrors.Malformed("encoding bundle manifest", err)
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return verrors.IO("creating bundle encoder", err)
	}
	compressed := enc.EncodeAll(data, nil)
	enc.Close()

	if err := utils.WriteFileAtomic(path, compressed, 0644); err != nil {
		return verrors.IO("writing bundle file", err)
	}
	return nil
}

// Read loads and decodes a bundle file.
func Read(path string) (*Manifest, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, verrors.NotFound("bundle", path)
		}
		return nil, verrors.IO("reading bundle file", err)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, verrors.IO("creating bundle decoder", err)
	}
	defer dec.Close()

	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, verrors.Malformed("bundle file is not zstd data", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, verrors.Malformed("bundle manifest is not well-formed", err)
	}
	return &m, nil
}
