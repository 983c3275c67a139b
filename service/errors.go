package service

import "errors"

// ErrInvalidInput marks errors caused by the caller's data. The wrapped
// message is safe to show to the user.
var ErrInvalidInput = errors.New("invalid input")
