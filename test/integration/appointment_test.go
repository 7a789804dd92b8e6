//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
)

func newAppointmentService(now time.Time) *appointment.Service {
	svc := appointment.NewService(appointment.NewRepoPG(globalPool),
		scheduling.NewResolver(scheduling.NewHolidayRepoPG(globalPool)), zerolog.Nop())
	svc.SetClock(func() time.Time { return now })
	return svc
}

func TestAppointments_SearchAndSummary(t *testing.T) {
	ctx := context.Background()
	h := createTestHospital(t, ctx)
	svc := createTestService(t, ctx, "Dolgu")
	d := createTestDoctor(t, ctx, h.ID, "Ayşe", "Yılmaz", svc.ID)
	patient := createTestPatient(t, ctx, "Ali", "Veli")

	createTestAppointment(t, ctx, h.ID, patient, &d.ID, &svc.ID, "2025-06-12", "10:00", "pending")
	createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-12", "bozuk", "completed")
	createTestAppointment(t, ctx, h.ID, patient, &d.ID, &svc.ID, "2025-06-20", "14:30", "cancelled")

	repo := appointment.NewRepoPG(globalPool)
	items, total, err := repo.Search(ctx, h.ID, appointment.Filter{ServiceID: &svc.ID}, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 appointments for the service, got %d/%d", len(items), total)
	}
	if items[0].PatientName != "Ali Veli" || items[0].DoctorName != "Ayşe Yılmaz" || items[0].ServiceName != "Dolgu" {
		t.Errorf("expected joined names, got %q %q %q", items[0].PatientName, items[0].DoctorName, items[0].ServiceName)
	}

	sum, err := repo.Summary(ctx, h.ID, mustDate(t, "2025-06-12"))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := appointment.Summary{Total: 3, Pending: 1, Completed: 1, Cancelled: 1, Today: 2}
	if *sum != want {
		t.Errorf("summary = %+v, want %+v", *sum, want)
	}

	counts, err := repo.CountByService(ctx, h.ID)
	if err != nil || counts[svc.ID] != 2 {
		t.Errorf("expected 2 appointments counted for the service, got %v %v", counts, err)
	}
}

func TestAppointments_MalformedTimeIsReadable(t *testing.T) {
	ctx := context.Background()
	h := createTestHospital(t, ctx)
	d := createTestDoctor(t, ctx, h.ID, "Mehmet", "Kaya")
	patient := createTestPatient(t, ctx, "Ayşe", "Demir")
	id := createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-12", "öğleden sonra", "pending")

	a, err := appointment.NewRepoPG(globalPool).GetByID(ctx, h.ID, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.RawTime != "öğleden sonra" || a.Time.Valid() {
		t.Errorf("expected raw time kept and parsed time invalid, got %q valid=%v", a.RawTime, a.Time.Valid())
	}
}

func TestAppointments_AutoCancelOverdue(t *testing.T) {
	ctx := context.Background()
	h := createTestHospital(t, ctx)
	d := createTestDoctor(t, ctx, h.ID, "Ayşe", "Yılmaz")
	patient := createTestPatient(t, ctx, "Ali", "Veli")

	old := createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-01", "10:00", "pending")
	edge := createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-07", "10:00", "pending")
	done := createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-01", "11:00", "completed")

	svc := newAppointmentService(time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC))
	n, err := svc.AutoCancelOverdue(ctx, h.ID)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 cancellation, got %d", n)
	}

	repo := appointment.NewRepoPG(globalPool)
	if a, _ := repo.GetByID(ctx, h.ID, old); a.Status != appointment.StatusCancelled {
		t.Errorf("old: expected cancelled, got %s", a.Status)
	}
	if a, _ := repo.GetByID(ctx, h.ID, edge); a.Status != appointment.StatusPending {
		t.Errorf("cutoff day: expected pending, got %s", a.Status)
	}
	if a, _ := repo.GetByID(ctx, h.ID, done); a.Status != appointment.StatusCompleted {
		t.Errorf("completed: expected unchanged, got %s", a.Status)
	}
}

func TestAppointments_ListFlagsHolidaySlots(t *testing.T) {
	ctx := context.Background()
	h := createTestHospital(t, ctx)
	d := createTestDoctor(t, ctx, h.ID, "Ayşe", "Yılmaz")
	patient := createTestPatient(t, ctx, "Ali", "Veli")
	createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-16", "14:00", "pending")
	createTestAppointment(t, ctx, h.ID, patient, &d.ID, nil, "2025-06-16", "16:00", "pending")

	sched := scheduling.NewService(scheduling.NewHolidayRepoPG(globalPool), scheduling.NewHoursRepoPG(globalPool))
	err := sched.AddHospitalHoliday(ctx, h.ID, &scheduling.Holiday{
		Date: mustDate(t, "2025-06-16"), Reason: "Bakım",
		StartTime: scheduling.NewClockTime(13, 0), EndTime: scheduling.NewClockTime(15, 0),
	})
	if err != nil {
		t.Fatalf("add holiday: %v", err)
	}

	svc := newAppointmentService(time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC))
	items, _, err := svc.List(ctx, h.ID, appointment.Filter{}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	blocked := map[string]bool{}
	for _, it := range items {
		blocked[it.RawTime] = it.Blocked
	}
	if !blocked["14:00"] || blocked["16:00"] {
		t.Errorf("unexpected blocked flags: %v", blocked)
	}
}

func TestHolidays_MalformedTimeNeverBlocks(t *testing.T) {
	ctx := context.Background()
	h := createTestHospital(t, ctx)
	_, err := globalPool.Exec(ctx, `
		INSERT INTO holidays (id, hospital_id, date, reason, is_full_day, start_time, end_time)
		VALUES ($1, $2, '2025-06-16', 'Bakım', false, '13.00', '15:00')`, uuid.New(), h.ID)
	if err != nil {
		t.Fatalf("insert holiday: %v", err)
	}

	repo := scheduling.NewHolidayRepoPG(globalPool)
	items, err := repo.List(ctx, h.ID, scheduling.HolidayQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].StartTime.Valid() {
		t.Fatalf("expected one holiday with an unreadable start, got %d", len(items))
	}

	day, _ := scheduling.ParseDate("2025-06-16")
	blocked, err := scheduling.NewResolver(repo).IsSlotBlockedAt(ctx, h.ID, day, "14:00", nil)
	if err != nil {
		t.Fatalf("is slot blocked: %v", err)
	}
	if blocked {
		t.Error("a holiday with a malformed time must not block")
	}
}
