package gateway

import (
	"errors"
	"fmt"
)

// ErrConfigurationMissing means no document store is configured.
var ErrConfigurationMissing = errors.New("document store is not configured")

// PersistenceError represents a failed write: connect failure, timeout or store error.
type PersistenceError struct {
	Op      string
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// Details returns the underlying error text suitable for a response body.
func (e *PersistenceError) Details() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}
