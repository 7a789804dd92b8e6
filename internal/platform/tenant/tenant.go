// Package tenant resolves the hospital a request acts on.
package tenant

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type contextKey string

const hospitalIDKey contextKey = "hospital_id"

// Checker confirms a hospital exists.
type Checker interface {
	HospitalExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Middleware resolves the hospital id and stores it on the request context and
// the echo context. Unknown hospitals are rejected with 404.
func Middleware(checker Checker, defaultTenant string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractTenantID(c, defaultTenant)
			if raw == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "tenant identifier is required")
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid tenant identifier")
			}

			ctx := c.Request().Context()
			ok, err := checker.HospitalExists(ctx, id)
			if err != nil {
				log.Error().Err(err).Str("hospital_id", raw).Msg("tenant lookup failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "tenant resolution failed")
			}
			if !ok {
				return echo.NewHTTPError(http.StatusNotFound, "unknown hospital")
			}

			c.SetRequest(c.Request().WithContext(WithHospitalID(ctx, id)))
			c.Set(string(hospitalIDKey), id)
			return next(c)
		}
	}
}

func extractTenantID(c echo.Context, defaultTenant string) string {
	// 1. JWT claim (set by auth middleware)
	if tid, ok := c.Get("jwt_tenant_id").(string); ok && tid != "" {
		return tid
	}

	// 2. X-Tenant-ID header
	if tid := c.Request().Header.Get("X-Tenant-ID"); tid != "" {
		return tid
	}

	// 3. Query parameter
	if tid := c.QueryParam("tenant_id"); tid != "" {
		return tid
	}

	return defaultTenant
}

// WithHospitalID returns a context carrying the hospital id.
func WithHospitalID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, hospitalIDKey, id)
}

// FromContext retrieves the hospital id resolved by Middleware.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(hospitalIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Require returns the hospital id for a handler, or a 400 error when the
// request was not routed through Middleware.
func Require(c echo.Context) (uuid.UUID, error) {
	if id, ok := c.Get(string(hospitalIDKey)).(uuid.UUID); ok && id != uuid.Nil {
		return id, nil
	}
	if id, ok := FromContext(c.Request().Context()); ok {
		return id, nil
	}
	return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "tenant not resolved")
}

// Set attaches a hospital id to an echo context directly. Used by tests and
// internal callers that bypass Middleware.
func Set(c echo.Context, id uuid.UUID) {
	c.Set(string(hospitalIDKey), id)
}
