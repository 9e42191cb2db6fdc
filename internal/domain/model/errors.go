package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrAlreadyRemoved = errors.New("vehicle already removed")
)
