package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/securescore/internal/domain/record"
)

// FileSource reads a Reading from a JSON file, e.g. one dropped by another
// tool that talks to the provider.
type FileSource struct {
	path  string
	clock Clock
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string, opts ...FileOption) *FileSource {
	s := &FileSource{path: path, clock: LocalClock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch reads and converts the reading.
func (s *FileSource) Fetch(ctx context.Context) (record.Fields, error) {
	if err := ctx.Err(); err != nil {
		return record.Fields{}, fmt.Errorf("%w: %w", ErrSource, err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return record.Fields{}, fmt.Errorf("%w: read reading: %w", ErrSource, err)
	}
	var r Reading
	if err := json.Unmarshal(raw, &r); err != nil {
		return record.Fields{}, fmt.Errorf("%w: decode reading %s: %w", ErrSource, s.path, err)
	}
	rec, err := r.Record(s.clock())
	if err != nil {
		return record.Fields{}, err
	}
	return rec.Fields(), nil
}
