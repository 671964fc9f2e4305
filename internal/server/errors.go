package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/gateway"
	"github.com/jonathan/career-counselor/internal/identity"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional upstream service is not configured or failed.
type ErrUnavailable struct {
	Service string
	Cause   error
}

func (e *ErrUnavailable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Service, e.Cause)
	}
	return fmt.Sprintf("%s unavailable", e.Service)
}

func (e *ErrUnavailable) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unavailableErr *ErrUnavailable
		catalogErr     *catalog.LoadError
		persistErr     *gateway.PersistenceError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &validationErr), errors.As(err, &catalogErr):
		return http.StatusBadRequest
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, gateway.ErrConfigurationMissing), errors.As(err, &persistErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// bodyFor builds the failure body for err. Persistence failures carry the
// gateway's generic message with the store's error as details; anything
// else unexpected gets fallback as its message.
func bodyFor(err error, fallback string) errorBody {
	var (
		validationErr *ErrValidation
		persistErr    *gateway.PersistenceError
	)
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return errorBody{Error: "Unauthorized"}
	case errors.As(err, &validationErr):
		return errorBody{Error: "Invalid request", Details: validationErr.Error()}
	case errors.As(err, &persistErr):
		return errorBody{Error: persistErr.Message, Details: persistErr.Details()}
	default:
		return errorBody{Error: fallback, Details: err.Error()}
	}
}

// validationError converts a validator failure into an ErrValidation.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Report the first failing field
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
