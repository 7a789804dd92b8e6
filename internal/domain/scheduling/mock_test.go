package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// -- Mock Repositories --

type mockHolidayRepo struct {
	items map[uuid.UUID]*Holiday
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{items: make(map[uuid.UUID]*Holiday)}
}

func (m *mockHolidayRepo) Create(_ context.Context, h *Holiday) error {
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	m.items[h.ID] = h
	return nil
}

func (m *mockHolidayRepo) GetByID(_ context.Context, hospitalID, id uuid.UUID) (*Holiday, error) {
	h, ok := m.items[id]
	if !ok || h.HospitalID != hospitalID {
		return nil, apperr.NotFound("holiday")
	}
	return h, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, hospitalID, id uuid.UUID) error {
	h, ok := m.items[id]
	if !ok || h.HospitalID != hospitalID {
		return apperr.NotFound("holiday")
	}
	delete(m.items, id)
	return nil
}

func (m *mockHolidayRepo) List(_ context.Context, hospitalID uuid.UUID, q HolidayQuery) ([]*Holiday, error) {
	var out []*Holiday
	for _, h := range m.items {
		if h.HospitalID != hospitalID {
			continue
		}
		if !q.From.IsZero() && h.Date.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && h.Date.After(q.To) {
			continue
		}
		if q.HospitalWideOnly && !h.HospitalWide() {
			continue
		}
		if !q.HospitalWideOnly && q.DoctorID != nil && (h.DoctorID == nil || *h.DoctorID != *q.DoctorID) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockHolidayRepo) DeleteByDoctor(_ context.Context, hospitalID, doctorID uuid.UUID) (int, error) {
	n := 0
	for id, h := range m.items {
		if h.HospitalID == hospitalID && h.DoctorID != nil && *h.DoctorID == doctorID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

type mockHoursRepo struct {
	hospitals map[uuid.UUID]WorkingHours
	doctors   map[uuid.UUID]*DoctorHours
	owner     map[uuid.UUID]uuid.UUID
}

func newMockHoursRepo() *mockHoursRepo {
	return &mockHoursRepo{
		hospitals: make(map[uuid.UUID]WorkingHours),
		doctors:   make(map[uuid.UUID]*DoctorHours),
		owner:     make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *mockHoursRepo) addDoctor(hospitalID uuid.UUID, name string, hours WorkingHours) uuid.UUID {
	id := uuid.New()
	m.doctors[id] = &DoctorHours{DoctorID: id, Name: name, IsActive: true, Hours: hours}
	m.owner[id] = hospitalID
	return id
}

func (m *mockHoursRepo) HospitalHours(_ context.Context, hospitalID uuid.UUID) (WorkingHours, error) {
	w, ok := m.hospitals[hospitalID]
	if !ok {
		return WorkingHours{}, apperr.NotFound("hospital")
	}
	return w, nil
}

func (m *mockHoursRepo) DoctorHours(_ context.Context, hospitalID, doctorID uuid.UUID) (*DoctorHours, error) {
	d, ok := m.doctors[doctorID]
	if !ok || m.owner[doctorID] != hospitalID {
		return nil, apperr.NotFound("doctor")
	}
	return d, nil
}

func (m *mockHoursRepo) ListDoctorHours(_ context.Context, hospitalID uuid.UUID) ([]*DoctorHours, error) {
	var out []*DoctorHours
	for id, d := range m.doctors {
		if m.owner[id] == hospitalID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// -- Fixtures --

func clock(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

func date(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func open(start, end string) DayHours {
	return DayHours{IsAvailable: true, Start: clock(start), End: clock(end)}
}

// weekdayHours is open 09:00-18:00 Monday to Friday.
func weekdayHours() WorkingHours {
	var w WorkingHours
	for _, d := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday} {
		w[d] = open("09:00", "18:00")
	}
	return w
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestService() (*Service, *mockHolidayRepo, *mockHoursRepo, uuid.UUID) {
	holidays := newMockHolidayRepo()
	hours := newMockHoursRepo()
	hospitalID := uuid.New()
	hours.hospitals[hospitalID] = weekdayHours()
	svc := NewService(holidays, hours)
	svc.SetClock(fixedClock("2025-06-12 10:00"))
	return svc, holidays, hours, hospitalID
}
