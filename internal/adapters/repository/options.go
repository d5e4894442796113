// Package repository persists the score history file.
package repository

import "io/fs"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permissions of a newly created history file.
// An existing file keeps its own permissions.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithLocking enables or disables the advisory lock taken by Lock.
func WithLocking(enabled bool) Option {
	return func(s *FileStore) {
		s.locking = enabled
	}
}
