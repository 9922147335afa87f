package service

import "errors"

// Sentinel kinds for application errors.
var (
	ErrNoSession = errors.New("no check-in session selected")
)
