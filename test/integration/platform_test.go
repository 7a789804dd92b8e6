//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
	"github.com/CemBlt/dent-admin-app/internal/platform/middleware"
	"github.com/CemBlt/dent-admin-app/migrations"
)

func TestMigrator_IdempotentAndReported(t *testing.T) {
	ctx := context.Background()
	m := db.NewMigrator(globalPool, migrations.FS)

	n, err := m.Up(ctx)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing left to apply, got %d", n)
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	scripts, _ := m.Load()
	if len(statuses) != len(scripts) {
		t.Fatalf("expected %d statuses, got %d", len(scripts), len(statuses))
	}
	for _, s := range statuses {
		if !s.Applied || s.Modified {
			t.Errorf("%s: applied=%v modified=%v", s.Name, s.Applied, s.Modified)
		}
	}

	rep := db.NewHealthChecker(globalPool, scripts[len(scripts)-1].Version).Check(ctx)
	if rep.Status != db.HealthOK {
		t.Errorf("expected healthy database, got %+v", rep)
	}
}

func TestPGAuditSink(t *testing.T) {
	ctx := context.Background()
	h := createTestHospital(t, ctx)
	doctorID := uuid.New()

	err := middleware.PGAuditSink{DB: globalPool}.Record(ctx, middleware.AuditEntry{
		At:         time.Now().UTC(),
		RequestID:  "rid-int",
		HospitalID: &h.ID,
		UserID:     "admin-1",
		Action:     "delete",
		Resource:   "doctors",
		ResourceID: &doctorID,
		Method:     "DELETE",
		Path:       "/api/v1/doctors/" + doctorID.String(),
		Status:     204,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	var action, resource string
	var resourceID uuid.UUID
	var roles []string
	err = globalPool.QueryRow(ctx,
		`SELECT action, resource, resource_id, roles FROM panel_audit_log WHERE hospital_id = $1`, h.ID,
	).Scan(&action, &resource, &resourceID, &roles)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if action != "delete" || resource != "doctors" || resourceID != doctorID || len(roles) != 0 {
		t.Errorf("unexpected row: %s %s %s %v", action, resource, resourceID, roles)
	}
}
