package jsondoc

import "errors"

// Sentinel kinds for this package.
var (
	ErrSyntax = errors.New("malformed json")
	ErrEncode = errors.New("json encode failed")
)
