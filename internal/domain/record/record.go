// Package record defines the secure score record schema, the structural
// validator applied to stored history entries, and the semantic checks
// applied to freshly captured readings.
package record

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/okian/securescore/internal/domain/jsondoc"
)

// TimestampLayout is the lexicographically sortable capture time format.
const TimestampLayout = "2006-01-02 15:04:05"

// Canonical field names of a stored record.
const (
	FieldScorePercentage = "scorePercentage"
	FieldCurrentScore    = "currentScore"
	FieldMaxScore        = "maxScore"
	FieldScoreName       = "scoreName"
	FieldSubscriptionID  = "subscriptionId"
	FieldTimestamp       = "timestamp"
)

// Field names used by files written before the canonical names existed.
const (
	legacyFieldSubscriptionID = "subId"
	legacyFieldTimestamp      = "formattedDateTime"
)

const percentScale = 100

var validate = validator.New(validator.WithRequiredStructEnabled())

// ScoreRecord is one capture of the secure score.
type ScoreRecord struct {
	ScorePercentage int     `json:"scorePercentage" validate:"gte=0"`
	CurrentScore    float64 `json:"currentScore" validate:"gte=0"`
	MaxScore        float64 `json:"maxScore" validate:"gt=0"`
	ScoreName       string  `json:"scoreName" validate:"required"`
	SubscriptionID  string  `json:"subscriptionId"`
	Timestamp       string  `json:"timestamp" validate:"required"`
}

// Percentage returns round(current/max*100). Halves round to even.
func Percentage(current, maximum float64) (int, error) {
	if maximum == 0 {
		return 0, ErrZeroMaxScore
	}
	return int(math.RoundToEven(current / maximum * percentScale)), nil
}

// New builds a ScoreRecord captured at the given time and checks it.
// currentScore above maxScore is accepted. Text that is not valid UTF-8 is
// rejected since it could not be stored unchanged.
func New(current, maximum float64, name, subscriptionID string, at time.Time) (ScoreRecord, error) {
	for _, s := range []string{name, subscriptionID} {
		if !utf8.ValidString(s) {
			return ScoreRecord{}, fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrInvalidText, s)
		}
	}
	pct, err := Percentage(current, maximum)
	if err != nil {
		return ScoreRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	r := ScoreRecord{
		ScorePercentage: pct,
		CurrentScore:    current,
		MaxScore:        maximum,
		ScoreName:       name,
		SubscriptionID:  subscriptionID,
		Timestamp:       at.Format(TimestampLayout),
	}
	if err := r.Check(); err != nil {
		return ScoreRecord{}, err
	}
	return r, nil
}

// Check runs the semantic rules declared in the struct tags.
func (r ScoreRecord) Check() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// Object renders the record as a JSON object in canonical member order.
func (r ScoreRecord) Object() jsondoc.Object {
	return jsondoc.Object{Members: []jsondoc.Member{
		{Key: FieldScorePercentage, Value: jsondoc.IntNumber(r.ScorePercentage)},
		{Key: FieldCurrentScore, Value: jsondoc.FloatNumber(r.CurrentScore)},
		{Key: FieldMaxScore, Value: jsondoc.FloatNumber(r.MaxScore)},
		{Key: FieldScoreName, Value: jsondoc.String{Text: r.ScoreName}},
		{Key: FieldSubscriptionID, Value: jsondoc.String{Text: r.SubscriptionID}},
		{Key: FieldTimestamp, Value: jsondoc.String{Text: r.Timestamp}},
	}}
}

// Fields wraps the record as validated fields. The canonical object always
// passes Validate, so no error is possible here.
func (r ScoreRecord) Fields() Fields {
	return Fields{object: r.Object()}
}
