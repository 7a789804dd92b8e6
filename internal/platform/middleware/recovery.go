package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/platform/metrics"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
)

// Recovery turns a handler panic into a 500. http.ErrAbortHandler is
// re-panicked so net/http can drop the connection.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				evt := logger.Error().
					Str("route", c.Path()).
					Str("method", c.Request().Method).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", debug.Stack())
				if rid, ok := c.Get("request_id").(string); ok {
					evt = evt.Str("request_id", rid)
				}
				if hospitalID, ok := tenant.FromContext(c.Request().Context()); ok {
					evt = evt.Str("hospital_id", hospitalID.String())
				}
				evt.Msg("handler panicked")
				metrics.IncPanic(c.Path())

				err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}()
			return next(c)
		}
	}
}
