package source

import "errors"

// Sentinel kinds for score source errors.
var (
	ErrSource              = errors.New("score source failed")
	ErrInvalidSubscription = errors.New("invalid subscription id")
	ErrUnknownSource       = errors.New("unknown score source")
)
