package repository

import "errors"

// Sentinel kinds for history storage errors.
var (
	ErrNotFound = errors.New("history not found")
	ErrRead     = errors.New("history read failed")
	ErrWrite    = errors.New("history write failed")
	ErrLocked   = errors.New("history is locked by another process")
)
