package record

import "errors"

// Sentinel kinds for this package. These allow errors.Is/As from callers.
var (
	ErrValidation            = errors.New("invalid record")
	ErrMissingField          = errors.New("missing field")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrUnexpectedElementKind = errors.New("unexpected element kind")
	ErrFieldNotNumeric       = errors.New("field not numeric")
	ErrZeroMaxScore          = errors.New("max score is zero")
	ErrInvalidRecord         = errors.New("record failed checks")
	ErrInvalidText           = errors.New("text is not valid UTF-8")
)
