package events

import "errors"

// Sentinel kinds for generator errors.
var (
	ErrInvalidDistance = errors.New("collision distance must be positive and finite")
)
