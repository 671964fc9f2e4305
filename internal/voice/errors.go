package voice

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when a session is used before it finished opening,
// after opening failed, or after it was closed.
var ErrNotReady = errors.New("voice session is not ready")

// TransitionError reports an event that is not legal in the current activity state.
type TransitionError struct {
	From  Activity
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("voice: event %s not allowed while %s", e.Event, e.From)
}

// APICallError represents a failed call to the speech services
type APICallError struct {
	Op      string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("voice %s failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("voice %s failed: %s", e.Op, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
