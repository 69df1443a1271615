package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prov-studio/prov-studio/internal/document"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// FileStore persists the document library as a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the given file path. The parent
// directory is created lazily on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path (used by the external-change watcher).
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the library file. A missing file is a normal first run and
// yields an empty library; a corrupt file is logged and likewise yields an
// empty library rather than an error.
func (s *FileStore) Load(_ context.Context) ([]document.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		storeLog.Warn("read document library", "path", s.path, "error", err)
		return nil, nil
	}
	return decodeLibrary(data), nil
}

// Save atomically rewrites the library file: the payload is written to a
// temp file in the same directory and renamed over the destination so a
// crash mid-write never leaves a truncated library.
func (s *FileStore) Save(_ context.Context, docs []document.Document) error {
	data, err := encodeLibrary(docs)
	if err != nil {
		return fmt.Errorf("encode document library: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("create library directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("create temp library file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write library file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close library file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePermission); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod library file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace library file %q: %w", s.path, err)
	}
	return nil
}
