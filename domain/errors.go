package domain

import "errors"

// ErrValidation marks client-side input failures. Handlers map
// anything wrapping it to a 400 response; everything else is a 500.
var ErrValidation = errors.New("invalid input")
