package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
)

const apiPrefix = "/api/v1/"

// AuditEntry is one state-changing panel request.
type AuditEntry struct {
	At         time.Time
	RequestID  string
	HospitalID *uuid.UUID
	UserID     string
	Roles      []string
	Action     string // create, update or delete
	Resource   string
	ResourceID *uuid.UUID
	Method     string
	Path       string
	Status     int
	RemoteIP   string
	UserAgent  string
}

// AuditSink stores audit entries.
type AuditSink interface {
	Record(ctx context.Context, e AuditEntry) error
}

type AuditSinkFunc func(ctx context.Context, e AuditEntry) error

func (f AuditSinkFunc) Record(ctx context.Context, e AuditEntry) error { return f(ctx, e) }

var auditActions = map[string]string{
	http.MethodPost:   "create",
	http.MethodPut:    "update",
	http.MethodPatch:  "update",
	http.MethodDelete: "delete",
}

// Audit logs every mutating /api/v1 request after it completes and hands the
// entry to each sink. Sink failures are logged and never change the response.
func Audit(logger zerolog.Logger, sinks ...AuditSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			action, mutating := auditActions[req.Method]
			if !mutating || !strings.HasPrefix(req.URL.Path, apiPrefix) {
				return next(c)
			}

			err := next(c)

			e := AuditEntry{
				At:        time.Now().UTC(),
				Action:    action,
				Method:    req.Method,
				Path:      req.URL.Path,
				Status:    c.Response().Status,
				RemoteIP:  c.RealIP(),
				UserAgent: req.UserAgent(),
			}
			if he, ok := err.(*echo.HTTPError); ok {
				e.Status = he.Code
			} else if err != nil {
				e.Status = http.StatusInternalServerError
			}
			e.Resource, e.ResourceID = auditTarget(req.URL.Path)
			e.RequestID, _ = c.Get("request_id").(string)

			ctx := req.Context()
			e.UserID = auth.UserIDFromContext(ctx)
			e.Roles = auth.RolesFromContext(ctx)
			if id, ok := tenant.FromContext(ctx); ok {
				e.HospitalID = &id
			}

			evt := logger.Info().
				Str("request_id", e.RequestID).
				Str("user_id", e.UserID).
				Str("action", e.Action).
				Str("resource", e.Resource).
				Int("status", e.Status)
			if e.HospitalID != nil {
				evt = evt.Str("hospital_id", e.HospitalID.String())
			}
			if e.ResourceID != nil {
				evt = evt.Str("resource_id", e.ResourceID.String())
			}
			evt.Msg("audit")

			if len(sinks) > 0 {
				sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
				for _, s := range sinks {
					if s == nil {
						continue
					}
					if recErr := s.Record(sinkCtx, e); recErr != nil {
						logger.Error().Err(recErr).Str("request_id", e.RequestID).Msg("audit sink failed")
					}
				}
				cancel()
			}
			return err
		}
	}
}

// auditTarget names the top-level collection and the innermost uuid in path:
//
//	/api/v1/doctors/<d>/holidays/<h>  ->  doctors, <h>
//	/api/v1/hospital/gallery/2        ->  hospital, nil
func auditTarget(path string) (string, *uuid.UUID) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, apiPrefix), "/"), "/")
	resource := parts[0]
	if resource == "" {
		resource = "unknown"
	}
	var id *uuid.UUID
	for _, p := range parts[1:] {
		if v, err := uuid.Parse(p); err == nil {
			id = &v
		}
	}
	return resource, id
}
