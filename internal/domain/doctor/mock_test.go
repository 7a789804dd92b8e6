package doctor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type mockRepo struct {
	items      map[uuid.UUID]*Doctor
	failDelete bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Doctor)}
}

func clone(d *Doctor) *Doctor {
	cp := *d
	cp.Services = append([]uuid.UUID(nil), d.Services...)
	return &cp
}

func (m *mockRepo) List(_ context.Context, hospitalID uuid.UUID, f Filter) ([]*Doctor, error) {
	var out []*Doctor
	for _, d := range m.items {
		if d.HospitalID != hospitalID {
			continue
		}
		if f.Active != nil && d.IsActive != *f.Active {
			continue
		}
		if f.ServiceID != nil {
			found := false
			for _, s := range d.Services {
				found = found || s == *f.ServiceID
			}
			if !found {
				continue
			}
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.FullName()+" "+d.Specialty), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, hospitalID, id uuid.UUID) (*Doctor, error) {
	d, ok := m.items[id]
	if !ok || d.HospitalID != hospitalID {
		return nil, apperr.NotFound("doctor")
	}
	return clone(d), nil
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.items[d.ID] = clone(d)
	return nil
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	cur, ok := m.items[d.ID]
	if !ok || cur.HospitalID != d.HospitalID {
		return apperr.NotFound("doctor")
	}
	m.items[d.ID] = clone(d)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, hospitalID, id uuid.UUID) error {
	if m.failDelete {
		return errors.New("delete failed")
	}
	d, ok := m.items[id]
	if !ok || d.HospitalID != hospitalID {
		return apperr.NotFound("doctor")
	}
	delete(m.items, id)
	return nil
}

type stubCatalog struct {
	known map[uuid.UUID]bool
}

func (s stubCatalog) Validate(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if !s.known[id] {
			return apperr.Invalid("services", "unknown service %s", id)
		}
	}
	return nil
}

// mockHolidays counts holidays per doctor.
type mockHolidays struct {
	byDoctor map[uuid.UUID]int
}

func (m *mockHolidays) DeleteDoctorHolidays(_ context.Context, _, doctorID uuid.UUID) (int, error) {
	n := m.byDoctor[doctorID]
	delete(m.byDoctor, doctorID)
	return n, nil
}

// recordingTx runs fn directly and records how often it was used.
type recordingTx struct {
	calls int
}

func (r *recordingTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}
