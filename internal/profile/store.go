package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// Extensions are tried in this order when looking up a key.
var Extensions = []string{".json", ".yaml", ".yml"}

// ErrDefinitionNotFound is returned by a Store when no definition exists.
var ErrDefinitionNotFound = errors.New("profile definition not found")

// Store provides raw profile definitions by key.
type Store interface {
	// Lookup returns the raw definition for key and the name it was found
	// under. The name's extension selects the decoder.
	Lookup(key string) (data []byte, name string, err error)
}

// FSStore looks up definitions as files named "{key}{ext}" in a file system.
type FSStore struct {
	fsys fs.FS
	desc string
}

// NewFSStore returns a Store reading from fsys.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys, desc: "fs"}
}

// NewDirStore returns a Store reading from the directory dir.
func NewDirStore(dir string) *FSStore {
	return &FSStore{fsys: os.DirFS(dir), desc: dir}
}

// Lookup implements Store.
func (s *FSStore) Lookup(key string) ([]byte, string, error) {
	if !fs.ValidPath(key) || path.Base(key) != key {
		return nil, "", fmt.Errorf("%w: invalid key %q", ErrDefinitionNotFound, key)
	}

	for _, ext := range Extensions {
		name := key + ext
		data, err := fs.ReadFile(s.fsys, name)
		if err == nil {
			return data, name, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, name, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	return nil, "", fmt.Errorf("%w: %s in %s", ErrDefinitionNotFound, key, s.desc)
}

// String returns the store location for diagnostics.
func (s *FSStore) String() string {
	return s.desc
}
