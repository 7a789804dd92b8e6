package settings

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
)

type mockRepo struct {
	items map[uuid.UUID][]byte
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID][]byte)}
}

// Get round-trips through JSON like the jsonb column does.
func (m *mockRepo) Get(_ context.Context, hospitalID uuid.UUID) (Settings, error) {
	raw, ok := m.items[hospitalID]
	if !ok {
		return nil, nil
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *mockRepo) Save(_ context.Context, hospitalID uuid.UUID, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.items[hospitalID] = raw
	return nil
}

type stubData struct {
	counts map[string]int
}

func (s stubData) Counts(context.Context, uuid.UUID) (map[string]int, error) {
	return s.counts, nil
}

func (s stubData) Dump(_ context.Context, hospitalID uuid.UUID) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{
		"hospital":     json.RawMessage(`{"id":"` + hospitalID.String() + `"}`),
		"appointments": json.RawMessage(`[]`),
	}, nil
}

type stubAppointments struct {
	items []*appointment.Appointment
}

func (s stubAppointments) Filter(_ context.Context, _ uuid.UUID, f appointment.Filter) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range s.items {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}
