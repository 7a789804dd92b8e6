package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
	"github.com/CemBlt/dent-admin-app/internal/domain/catalog"
	"github.com/CemBlt/dent-admin-app/internal/domain/doctor"
	"github.com/CemBlt/dent-admin-app/internal/domain/review"
	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
)

var errBoom = errors.New("boom")

// 2025-06-12 is a Thursday.
var fixedNow = time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

type stubAppointments struct {
	summary appointment.Summary
	today   []*appointment.Appointment
	counts  map[uuid.UUID]int
	err     error
}

func (s *stubAppointments) Summary(context.Context, uuid.UUID) (*appointment.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	sum := s.summary
	return &sum, nil
}

func (s *stubAppointments) Today(context.Context, uuid.UUID) ([]*appointment.Appointment, error) {
	return s.today, nil
}

func (s *stubAppointments) CountByService(context.Context, uuid.UUID) (map[uuid.UUID]int, error) {
	return s.counts, nil
}

type stubDoctors struct{ items []*doctor.Doctor }

func (s *stubDoctors) List(context.Context, uuid.UUID, doctor.Filter) ([]*doctor.Doctor, error) {
	return s.items, nil
}

type stubCatalog struct{ items []*catalog.MedicalService }

func (s *stubCatalog) List(context.Context) ([]*catalog.MedicalService, error) { return s.items, nil }

type stubReviews struct {
	avg    float64
	latest []*review.Item
}

func (s *stubReviews) AverageRating(context.Context, uuid.UUID) (float64, error) { return s.avg, nil }

func (s *stubReviews) Latest(_ context.Context, _ uuid.UUID, n int) ([]*review.Item, error) {
	if len(s.latest) > n {
		return s.latest[:n], nil
	}
	return s.latest, nil
}

type stubHolidays struct{ items []*scheduling.Holiday }

func (s *stubHolidays) UpcomingHolidays(_ context.Context, _ uuid.UUID, limit int) ([]*scheduling.Holiday, error) {
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

type fixture struct {
	svc          *Service
	appointments *stubAppointments
	doctors      *stubDoctors
	catalog      *stubCatalog
	reviews      *stubReviews
	holidays     *stubHolidays
}

func newFixture() *fixture {
	f := &fixture{
		appointments: &stubAppointments{counts: map[uuid.UUID]int{}},
		doctors:      &stubDoctors{},
		catalog:      &stubCatalog{},
		reviews:      &stubReviews{},
		holidays:     &stubHolidays{},
	}
	f.svc = NewService(f.appointments, f.doctors, f.catalog, f.reviews, f.holidays)
	f.svc.SetClock(func() time.Time { return fixedNow })
	return f
}

func date(s string) scheduling.Date {
	d, err := scheduling.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func clock(s string) scheduling.ClockTime {
	c, err := scheduling.ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}
