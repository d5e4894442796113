// Package history flattens stored score documents into an ordered list of
// validated records and renders that list back to its canonical shape.
package history

import (
	"context"

	"github.com/okian/securescore/internal/domain/jsondoc"
	"github.com/okian/securescore/internal/domain/record"
	"github.com/okian/securescore/pkg/logger"
	"github.com/okian/securescore/pkg/metrics"
)

// Normalizer turns an object, an array, or an array with nested arrays into
// a flat record sequence in document order.
type Normalizer struct {
	logger logger.Logger
}

// NewNormalizer creates a Normalizer with the given options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{logger: logger.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Flatten validates and flattens root. Elements that are neither objects nor
// arrays are skipped with a warning; an object that fails validation or a
// root of any other kind is fatal. An empty array yields an empty, non-nil
// slice.
func (n *Normalizer) Flatten(ctx context.Context, root jsondoc.Value) ([]record.Fields, error) {
	switch v := root.(type) {
	case jsondoc.Object:
		f, err := record.ValidateObject(v, record.RootPath)
		if err != nil {
			return nil, err
		}
		return []record.Fields{f}, nil
	case jsondoc.Array:
		out := make([]record.Fields, 0, len(v.Elems))
		return n.flattenArray(ctx, v, record.RootPath, out)
	default:
		got := jsondoc.KindOther
		if root != nil {
			got = root.Kind()
		}
		return nil, &record.ValidationError{Kind: record.UnexpectedElementKind, Path: record.RootPath, Got: got}
	}
}

func (n *Normalizer) flattenArray(ctx context.Context, arr jsondoc.Array, path string, out []record.Fields) ([]record.Fields, error) {
	for i, e := range arr.Elems {
		at := record.ElemPath(path, i)
		switch v := e.(type) {
		case jsondoc.Object:
			f, err := record.ValidateObject(v, at)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		case jsondoc.Array:
			var err error
			if out, err = n.flattenArray(ctx, v, at, out); err != nil {
				return nil, err
			}
		case jsondoc.Number, jsondoc.String, jsondoc.Other:
			n.logger.Warn(ctx, "skipping history element that is not a record",
				logger.String("path", at),
				logger.String("kind", e.Kind().String()),
			)
			metrics.RecordSkippedElement(e.Kind().String())
		}
	}
	return out, nil
}

// Latest returns the last record, or nil for an empty history.
func Latest(records []record.Fields) *record.Fields {
	if len(records) == 0 {
		return nil
	}
	return &records[len(records)-1]
}

// Append returns a new slice with next added after records. The input slice
// is never modified.
func Append(records []record.Fields, next record.Fields) []record.Fields {
	out := make([]record.Fields, 0, len(records)+1)
	out = append(out, records...)
	return append(out, next)
}

// Document renders records as a flat JSON array, the shape every persisted
// history takes regardless of the shape it was read in.
func Document(records []record.Fields) jsondoc.Array {
	elems := make([]jsondoc.Value, len(records))
	for i, r := range records {
		elems[i] = r.Object()
	}
	return jsondoc.Array{Elems: elems}
}

// Snapshot is a loaded history together with where it came from.
type Snapshot struct {
	Location string
	// Exists is false when nothing was stored yet.
	Exists  bool
	Records []record.Fields
}
