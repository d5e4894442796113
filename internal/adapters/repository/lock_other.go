//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package repository

import "context"

// Lock is a no-op where flock(2) is unavailable.
func (s *FileStore) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func() error { return nil }, nil
}
