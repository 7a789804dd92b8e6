package middleware

import (
	"context"
	"fmt"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
)

// PGAuditSink appends entries to panel_audit_log.
type PGAuditSink struct{ DB db.Querier }

func (s PGAuditSink) Record(ctx context.Context, e AuditEntry) error {
	if e.Roles == nil {
		e.Roles = []string{}
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO panel_audit_log
			(at, request_id, hospital_id, user_id, roles, action, resource, resource_id,
			 method, path, status, remote_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.At, e.RequestID, e.HospitalID, e.UserID, e.Roles, e.Action, e.Resource, e.ResourceID,
		e.Method, e.Path, e.Status, e.RemoteIP, e.UserAgent)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
