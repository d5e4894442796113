// Package delta compares the current score of a new record against the
// record captured immediately before it.
package delta

import (
	"fmt"
	"strconv"

	"github.com/okian/securescore/internal/domain/record"
)

// Class labels the direction of a score change.
type Class string

// Classes. FirstCapture is used when there is no prior record.
const (
	FirstCapture Class = "FirstCapture"
	Unchanged    Class = "Unchanged"
	Improved     Class = "Improved"
	Regressed    Class = "Regressed"
)

// Result describes the change between two captures. When Computed is false
// there was no prior record and only Current is set.
type Result struct {
	Computed bool    `json:"computed"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
	Class    Class   `json:"class"`
}

// Compute returns next.currentScore - prior.currentScore. A nil prior means
// this is the first capture and no delta is computed.
func Compute(prior *record.Fields, next record.Fields) (Result, error) {
	cur, err := next.CurrentScore()
	if err != nil {
		return Result{}, fmt.Errorf("new record: %w", err)
	}
	if prior == nil {
		return Result{Current: cur, Class: FirstCapture}, nil
	}
	prev, err := prior.CurrentScore()
	if err != nil {
		return Result{}, fmt.Errorf("prior record: %w", err)
	}
	d := cur - prev
	return Result{
		Computed: true,
		Previous: prev,
		Current:  cur,
		Delta:    d,
		Class:    Classify(d),
	}, nil
}

// Classify maps a delta to a Class. Zero is compared exactly.
func Classify(d float64) Class {
	switch {
	case d == 0:
		return Unchanged
	case d > 0:
		return Improved
	default:
		return Regressed
	}
}

// String renders the result for humans, e.g. "Improved +5 (80 -> 85)".
func (r Result) String() string {
	if !r.Computed {
		return fmt.Sprintf("%s (score %s)", r.Class, formatScore(r.Current))
	}
	sign := ""
	if r.Delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s %s%s (%s -> %s)",
		r.Class, sign, formatScore(r.Delta), formatScore(r.Previous), formatScore(r.Current))
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Series computes the result for every record against the one before it.
// The first entry is always a FirstCapture.
func Series(records []record.Fields) ([]Result, error) {
	out := make([]Result, 0, len(records))
	for i := range records {
		var prior *record.Fields
		if i > 0 {
			prior = &records[i-1]
		}
		r, err := Compute(prior, records[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
