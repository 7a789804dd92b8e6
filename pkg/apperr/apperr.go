// Package apperr holds the error values shared by the panel's domain services
// and the helpers handlers use to turn them into HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrNotFound is returned when an update, delete or lookup targets a record
// that does not exist within the caller's hospital.
var ErrNotFound = errors.New("record not found")

// ValidationError reports input that violates a domain invariant. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a *ValidationError for field.
func Invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the kind of record that was missing.
func NotFound(kind string) error {
	return fmt.Errorf("%s: %w", kind, ErrNotFound)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTP maps a service error to an echo HTTP error.
func HTTP(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, strings.TrimSpace(err.Error()))
	case IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
