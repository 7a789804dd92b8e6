package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type mockRepo struct {
	items      map[uuid.UUID]*Appointment
	failUpdate bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) add(a *Appointment) *Appointment {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	a.Time = scheduling.LenientClockTime(a.RawTime)
	a.CreatedAt = time.Now()
	m.items[a.ID] = a
	return a
}

func (m *mockRepo) GetByID(_ context.Context, hospitalID, id uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok || a.HospitalID != hospitalID {
		return nil, apperr.NotFound("appointment")
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Search(_ context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.items {
		if a.HospitalID == hospitalID && f.Matches(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].RawTime > out[j].RawTime
	})
	total := len(out)
	if limit > 0 {
		if offset > len(out) {
			offset = len(out)
		}
		end := offset + limit
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, total, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if m.failUpdate {
		return apperr.NotFound("appointment")
	}
	existing, ok := m.items[a.ID]
	if !ok || existing.HospitalID != a.HospitalID {
		return apperr.NotFound("appointment")
	}
	existing.Status = a.Status
	existing.Notes = a.Notes
	return nil
}

func (m *mockRepo) Delete(_ context.Context, hospitalID, id uuid.UUID) error {
	a, ok := m.items[id]
	if !ok || a.HospitalID != hospitalID {
		return apperr.NotFound("appointment")
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListOverdue(_ context.Context, hospitalID uuid.UUID, cutoff scheduling.Date) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.items {
		if a.HospitalID == hospitalID && a.Status == StatusPending && a.Date.Before(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) Summary(_ context.Context, hospitalID uuid.UUID, today scheduling.Date) (*Summary, error) {
	var s Summary
	for _, a := range m.items {
		if a.HospitalID != hospitalID {
			continue
		}
		s.Total++
		switch a.Status {
		case StatusPending:
			s.Pending++
		case StatusCompleted:
			s.Completed++
		case StatusCancelled:
			s.Cancelled++
		}
		if a.Date.Equal(today) {
			s.Today++
		}
	}
	return &s, nil
}

func (m *mockRepo) CountByService(_ context.Context, hospitalID uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, a := range m.items {
		if a.HospitalID == hospitalID && a.ServiceID != nil {
			out[*a.ServiceID]++
		}
	}
	return out, nil
}

type stubSlots struct {
	holidays []*scheduling.Holiday
}

func (s *stubSlots) Window(_ context.Context, _ uuid.UUID, from, to scheduling.Date) (*scheduling.Window, error) {
	var in []*scheduling.Holiday
	for _, h := range s.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			in = append(in, h)
		}
	}
	return scheduling.NewWindow(in), nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	changed []Status
	overdue []int
}

func (r *recordingNotifier) StatusChanged(_ context.Context, a *Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, a.Status)
}

func (r *recordingNotifier) OverdueCancelled(_ context.Context, _ uuid.UUID, count int, _ scheduling.Date) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overdue = append(r.overdue, count)
}

func date(s string) scheduling.Date {
	d, err := scheduling.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// today in these tests is 2025-06-12.
func newTestService() (*Service, *mockRepo, *stubSlots, *recordingNotifier) {
	repo := newMockRepo()
	slots := &stubSlots{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, slots, zerolog.Nop())
	svc.SetNotifier(notifier)
	svc.SetClock(func() time.Time { return time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC) })
	return svc, repo, slots, notifier
}
