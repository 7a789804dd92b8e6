package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTimeout(mw echo.MiddlewareFunc, path string, h echo.HandlerFunc) error {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
	return mw(h)(c)
}

func waitForDeadline(c echo.Context) error {
	<-c.Request().Context().Done()
	return c.Request().Context().Err()
}

func TestRequestTimeout_Expired(t *testing.T) {
	err := runTimeout(RequestTimeout(10*time.Millisecond), "/api/v1/calendar", waitForDeadline)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusGatewayTimeout, he.Code)
	assert.ErrorIs(t, he.Internal, context.DeadlineExceeded)
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	var deadline bool
	err := runTimeout(RequestTimeout(time.Second), "/api/v1/doctors", func(c echo.Context) error {
		_, deadline = c.Request().Context().Deadline()
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, deadline)
}

func TestRequestTimeout_ErrorBeforeDeadlineUntouched(t *testing.T) {
	want := errors.New("not found")
	err := runTimeout(RequestTimeout(time.Second), "/api/v1/doctors/x", func(echo.Context) error { return want })
	assert.Same(t, want, err)
}

func TestRequestTimeout_Skipped(t *testing.T) {
	for _, mw := range []echo.MiddlewareFunc{
		RequestTimeout(time.Millisecond, "/api/v1/settings/export"),
		RequestTimeout(0),
	} {
		err := runTimeout(mw, "/api/v1/settings/export/appointments.xlsx", func(c echo.Context) error {
			_, has := c.Request().Context().Deadline()
			assert.False(t, has)
			return nil
		})
		assert.NoError(t, err)
	}
}
