// Package keystore persists serialized key material. Blobs go to disk
// hex-encoded, write-once read-many; the sqlite registry tracks which pairs
// exist and where their halves live. No cryptographic logic lives here.
package keystore

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/orion-protocol/orion-fhe/internal/hexcodec"
)

// WriteError reports a failed save with the destination path and the
// underlying I/O cause.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("keystore: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError reports a failed load: missing path, unreadable file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("keystore: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Save writes blob hex-encoded to path, creating missing parent directories.
// The file is closed on every exit path. Concurrent writers to the same path
// are last-writer-wins; callers needing atomic replacement should write to a
// temporary path and rename.
func Save(path string, blob []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	_, werr := io.WriteString(f, hexcodec.Encode(blob))
	cerr := f.Close()
	if werr != nil {
		return &WriteError{Path: path, Err: werr}
	}
	if cerr != nil {
		return &WriteError{Path: path, Err: cerr}
	}
	return nil
}

// Load reads and decodes the blob stored at path. Corrupt content surfaces
// as hexcodec.ErrMalformedEncoding; a missing or unreadable path as
// *ReadError. Never substitutes a default for absent key material.
func Load(path string) ([]byte, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	blob, err := hexcodec.Decode(string(text))
	if err != nil {
		return nil, errors.Wrapf(err, "keystore: %s", path)
	}
	return blob, nil
}

// Fingerprint identifies a key blob for registry and audit purposes without
// revealing it.
func Fingerprint(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hexcodec.Encode(sum[:])
}
