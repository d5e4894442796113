package record

import (
	"fmt"
	"math"

	"github.com/okian/securescore/internal/domain/jsondoc"
)

// Fields is a record object that passed structural validation. The object
// is kept as stored so that unknown members and number literals survive a
// load/persist cycle unchanged.
type Fields struct {
	object jsondoc.Object
}

// Object returns the underlying JSON object.
func (f Fields) Object() jsondoc.Object { return f.object }

// CurrentScore extracts currentScore as a float64.
func (f Fields) CurrentScore() (float64, error) {
	v, ok := f.object.Get(FieldCurrentScore)
	if !ok {
		return 0, fmt.Errorf("%w: %s is missing", ErrFieldNotNumeric, FieldCurrentScore)
	}
	n, ok := v.(jsondoc.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s", ErrFieldNotNumeric, FieldCurrentScore, v.Kind())
	}
	score, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFieldNotNumeric, err)
	}
	return score, nil
}

// Record decodes the object into a ScoreRecord for display. Missing or
// mistyped optional members are left at their zero value and legacy member
// names are honoured.
func (f Fields) Record() ScoreRecord {
	var r ScoreRecord
	if v, ok := f.number(FieldScorePercentage); ok {
		r.ScorePercentage = int(math.Round(v))
	}
	r.CurrentScore, _ = f.number(FieldCurrentScore)
	r.MaxScore, _ = f.number(FieldMaxScore)
	r.ScoreName = f.text(FieldScoreName)
	r.SubscriptionID = f.text(FieldSubscriptionID, legacyFieldSubscriptionID)
	r.Timestamp = f.text(FieldTimestamp, legacyFieldTimestamp)
	return r
}

// MarshalJSON writes the stored object.
func (f Fields) MarshalJSON() ([]byte, error) {
	return jsondoc.Marshal(f.object)
}

func (f Fields) number(key string) (float64, bool) {
	v, ok := f.object.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(jsondoc.Number)
	if !ok {
		return 0, false
	}
	x, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return x, true
}

func (f Fields) text(keys ...string) string {
	for _, k := range keys {
		if v, ok := f.object.Get(k); ok {
			if s, ok := v.(jsondoc.String); ok {
				return s.Text
			}
		}
	}
	return ""
}
