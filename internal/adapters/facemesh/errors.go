package facemesh

import "errors"

// Sentinel kinds for detector client errors.
var (
	ErrDetector = errors.New("face detector request failed")
)
