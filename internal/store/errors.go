package store

import "errors"

// ErrTimeout is returned when the timer wins the race against a store call.
var ErrTimeout = errors.New("store operation timed out")
