package app

import "errors"

// ErrValidation marks input rejected by a service. Wrapped errors carry the
// reason.
var ErrValidation = errors.New("invalid input")
