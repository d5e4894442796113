// Package repository persists the score history file.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Default file store configuration constants.
const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
	lockSuffix      = ".lock"
)

// Store provides whole-file read/write access to the history.
type Store interface {
	// Read returns the stored bytes. Returns ErrNotFound if nothing is stored yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes. Either all of data becomes visible or
	// the previous content stays in place.
	Write(ctx context.Context, data []byte) error

	// Location describes where the history lives, for messages.
	Location() string
}

// Locker is implemented by stores that can exclude concurrent writers.
type Locker interface {
	// Lock takes an exclusive lock and returns the function releasing it.
	// Returns ErrLocked if another holder exists.
	Lock(ctx context.Context) (func() error, error)
}

// FileStore keeps the history in a single file on the local filesystem.
type FileStore struct {
	path     string
	fileMode fs.FileMode
	locking  bool
}

// NewFileStore creates a store for the file at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:     path,
		fileMode: defaultFileMode,
		locking:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the file path.
func (s *FileStore) Location() string { return s.path }

// Read loads the whole file.
func (s *FileStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return data, nil
}

// Write stores data through a temporary file in the same directory that is
// synced and then renamed over the target. The temporary file is removed on
// every failure path.
func (s *FileStore) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrWrite, err)
	}

	mode := s.fileMode
	if st, err := os.Stat(s.path); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ErrWrite, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write temp: %w", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync temp: %w", ErrWrite, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("%w: chmod temp: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %w", ErrWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrWrite, err)
	}
	committed = true

	// The rename is durable once the directory entry is synced. Not every
	// platform allows syncing a directory, so failures here are ignored.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// LockPath returns the path of the advisory lock file.
func (s *FileStore) LockPath() string { return s.path + lockSuffix }
