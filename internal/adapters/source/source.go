// Package source provides the boundary through which a new secure score
// record is obtained, plus the adapters that implement it.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/securescore/internal/domain/record"
)

// Source produces one new record per call.
type Source interface {
	// Fetch returns a new record. Errors match ErrSource.
	Fetch(ctx context.Context) (record.Fields, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context) (record.Fields, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context) (record.Fields, error) {
	return f(ctx)
}

// Static returns a record supplied up front instead of fetching one.
type Static struct {
	fields record.Fields
}

// NewStatic wraps an already captured record.
func NewStatic(r record.ScoreRecord) Static {
	return Static{fields: r.Fields()}
}

// Fetch returns the wrapped record.
func (s Static) Fetch(ctx context.Context) (record.Fields, error) {
	if err := ctx.Err(); err != nil {
		return record.Fields{}, fmt.Errorf("%w: %w", ErrSource, err)
	}
	return s.fields, nil
}

// Clock returns the capture time of a new record.
type Clock func() time.Time

// LocalClock returns the local wall time.
func LocalClock() time.Time { return time.Now() }

// UTCClock returns the wall time in UTC.
func UTCClock() time.Time { return time.Now().UTC() }

// Reading is the raw provider value a record is built from.
type Reading struct {
	Current        float64 `json:"current"`
	Max            float64 `json:"max"`
	Name           string  `json:"name"`
	SubscriptionID string  `json:"subscriptionId"`
}

// Record turns the reading into a record captured at at.
func (r Reading) Record(at time.Time) (record.ScoreRecord, error) {
	rec, err := record.New(r.Current, r.Max, r.Name, r.SubscriptionID, at)
	if err != nil {
		return record.ScoreRecord{}, fmt.Errorf("%w: %w", ErrSource, err)
	}
	return rec, nil
}

// ValidateSubscriptionID checks that id is a GUID.
func ValidateSubscriptionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidSubscription, id, err)
	}
	return nil
}
