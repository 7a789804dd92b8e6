package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNotFound_Wraps(t *testing.T) {
	err := NotFound("appointment")
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound to be true")
	}
	if err.Error() != "appointment: record not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationError_Message(t *testing.T) {
	err := Invalid("monday", "start must be before end")
	if err.Error() != "monday: start must be before end" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	wrapped := fmt.Errorf("update: %w", err)
	if !IsValidation(wrapped) {
		t.Error("expected wrapped validation error to be detected")
	}
}

func TestHTTP_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NotFound("doctor"), http.StatusNotFound},
		{Invalid("date", "bad"), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		he, ok := HTTP(tc.err).(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected *echo.HTTPError for %v", tc.err)
		}
		if he.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, he.Code)
		}
	}
	if HTTP(nil) != nil {
		t.Error("expected nil for nil error")
	}
}
