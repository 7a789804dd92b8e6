package hospital

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/location"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type mockRepo struct {
	items     map[uuid.UUID]*Hospital
	failWrite bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Hospital)}
}

func clone(h *Hospital) *Hospital {
	cp := *h
	cp.Gallery = append([]string(nil), h.Gallery...)
	cp.Services = append([]uuid.UUID(nil), h.Services...)
	return &cp
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("hospital")
	}
	return clone(h), nil
}

func (m *mockRepo) List(_ context.Context) ([]*Hospital, error) {
	var out []*Hospital
	for _, h := range m.items {
		out = append(out, clone(h))
	}
	return out, nil
}

func (m *mockRepo) Create(_ context.Context, h *Hospital) error {
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	m.items[h.ID] = clone(h)
	return nil
}

func (m *mockRepo) Update(_ context.Context, h *Hospital) error {
	if m.failWrite {
		return errors.New("write failed")
	}
	if _, ok := m.items[h.ID]; !ok {
		return apperr.NotFound("hospital")
	}
	h.UpdatedAt = time.Now()
	m.items[h.ID] = clone(h)
	return nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
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

const testLocations = `
provinces:
  - id: "34"
    name: İSTANBUL
    districts:
      - id: "1421"
        name: KADIKÖY
        neighborhoods:
          - {id: "34001", name: CAFERAĞA}
      - id: "1183"
        name: BEŞİKTAŞ
        neighborhoods:
          - {id: "34101", name: LEVENT}
`

func mustDirectory() *location.Directory {
	ds, err := location.Load(strings.NewReader(testLocations))
	if err != nil {
		panic(err)
	}
	return location.NewDirectory(ds, nil)
}
