package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/inventra/core/internal/ports"
)

// emptyCollection is written when a collection document does not exist yet.
var emptyCollection = []byte("[]")

// FileStorage keeps one collection document in a JSON file on disk
type FileStorage struct {
	path string
}

var _ ports.CollectionStorage = (*FileStorage)(nil)

// NewFileStorage creates a file-backed collection storage
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the document location
func (s *FileStorage) Path() string {
	return s.path
}

// Read returns the file contents, creating the file with an empty collection if it is missing
func (s *FileStorage) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	if err := s.Write(ctx, emptyCollection); err != nil {
		return nil, fmt.Errorf("failed to bootstrap %s: %w", s.path, err)
	}

	return append([]byte(nil), emptyCollection...), nil
}

// Write replaces the file atomically: temp file in the same directory, fsync, rename
func (s *FileStorage) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}
