// Package errs contains sentinel errors shared by repositories, services and handlers,
// plus their mapping to HTTP status codes.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g. e-mail taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates a missing field or an unknown enum value.
	ErrValidation = errors.New("invalid input")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller may not act on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrStateConflict indicates the stored state no longer matches the expected one.
	ErrStateConflict = errors.New("state conflict")

	// ErrInsufficientPoints indicates an eco points balance too low for the operation.
	ErrInsufficientPoints = errors.New("insufficient eco points")
)

// Invalid returns a validation error with a formatted detail.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Status maps an error to the HTTP status code of its class.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStateConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns a client-safe message: the error text for known classes, fallback otherwise.
func Message(err error, fallback string) string {
	if Status(err) == http.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}
