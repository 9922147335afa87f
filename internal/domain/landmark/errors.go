package landmark

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrNoFace       = errors.New("no face detected")
	ErrInvalidImage = errors.New("invalid image")
)
