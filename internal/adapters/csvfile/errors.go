package csvfile

import "errors"

// Sentinel kinds for CSV errors.
var (
	ErrHeader = errors.New("invalid csv header")
	ErrRecord = errors.New("invalid csv record")
)
