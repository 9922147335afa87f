package predict

import "errors"

// Sentinel kinds for prediction errors.
var (
	ErrUnavailable = errors.New("attendance model unavailable")
)
