package resolver

import "errors"

// Sentinel kinds for resolver errors.
var (
	ErrInvalidEvent = errors.New("event references unknown or unordered vehicles")
)
