package training

import "github.com/okian/muster/internal/domain/feature"

// ErrInsufficientData aliases the encoder sentinel so callers match a
// single condition whether the shortfall is caught here or during Fit.
var ErrInsufficientData = feature.ErrInsufficientData
