package textio

import "errors"

// Sentinel kinds for record I/O errors.
var (
	ErrMalformedRecord = errors.New("malformed vehicle record")
)
