package artifact

import "errors"

// Sentinel kinds for artifact store errors.
var (
	ErrUnavailable = errors.New("model artifact unavailable")
)
