package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type mockRepo struct {
	items map[uuid.UUID]*MedicalService
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*MedicalService)}
}

func (m *mockRepo) List(_ context.Context) ([]*MedicalService, error) {
	var out []*MedicalService
	for _, s := range m.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalService, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("service")
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) Create(_ context.Context, s *MedicalService) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *mockRepo) Update(_ context.Context, s *MedicalService) error {
	if _, ok := m.items[s.ID]; !ok {
		return apperr.NotFound("service")
	}
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound("service")
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) Missing(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := m.items[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// mockAssignments keeps per-doctor and per-hospital service lists.
type mockAssignments struct {
	doctors   map[uuid.UUID][]uuid.UUID
	owners    map[uuid.UUID]uuid.UUID
	hospitals map[uuid.UUID][]uuid.UUID
}

func newMockAssignments() *mockAssignments {
	return &mockAssignments{
		doctors:   make(map[uuid.UUID][]uuid.UUID),
		owners:    make(map[uuid.UUID]uuid.UUID),
		hospitals: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockAssignments) addDoctor(hospitalID uuid.UUID, services ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.owners[id] = hospitalID
	m.doctors[id] = services
	return id
}

func remove(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (m *mockAssignments) RemoveEverywhere(_ context.Context, serviceID uuid.UUID) error {
	for id, list := range m.doctors {
		m.doctors[id] = remove(list, serviceID)
	}
	for id, list := range m.hospitals {
		m.hospitals[id] = remove(list, serviceID)
	}
	return nil
}

func (m *mockAssignments) AssignDoctors(_ context.Context, hospitalID, serviceID uuid.UUID, doctorIDs []uuid.UUID) error {
	for id, owner := range m.owners {
		if owner != hospitalID {
			continue
		}
		list := m.doctors[id]
		switch {
		case contains(doctorIDs, id) && !contains(list, serviceID):
			m.doctors[id] = append(list, serviceID)
		case !contains(doctorIDs, id):
			m.doctors[id] = remove(list, serviceID)
		}
	}
	return nil
}

func (m *mockAssignments) UnknownDoctors(_ context.Context, hospitalID uuid.UUID, doctorIDs []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range doctorIDs {
		if m.owners[id] != hospitalID {
			out = append(out, id)
		}
	}
	return out, nil
}
