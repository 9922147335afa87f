package feature

import "errors"

// Sentinel kinds for encoding errors.
var (
	ErrInsufficientData = errors.New("insufficient training data")
)
