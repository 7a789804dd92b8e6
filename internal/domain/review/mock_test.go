package review

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type mockRepo struct {
	reviews map[uuid.UUID]*Review
	ratings map[uuid.UUID]*Rating
}

func newMockRepo() *mockRepo {
	return &mockRepo{reviews: make(map[uuid.UUID]*Review), ratings: make(map[uuid.UUID]*Rating)}
}

func (m *mockRepo) add(hospitalID uuid.UUID, doctorID *uuid.UUID, created time.Time, doctorRating, hospitalRating int) *Review {
	rv := &Review{
		ID: uuid.New(), UserID: uuid.New(), HospitalID: hospitalID, DoctorID: doctorID,
		AppointmentID: uuid.New(), Comment: "Çok memnun kaldım", CreatedAt: created,
	}
	m.reviews[rv.ID] = rv
	if doctorRating > 0 || hospitalRating > 0 {
		m.ratings[rv.AppointmentID] = &Rating{
			AppointmentID: rv.AppointmentID, HospitalID: hospitalID,
			DoctorRating: doctorRating, HospitalRating: hospitalRating,
		}
	}
	return rv
}

func (m *mockRepo) ListItems(_ context.Context, hospitalID uuid.UUID) ([]*Item, error) {
	var out []*Item
	for _, rv := range m.reviews {
		if rv.HospitalID != hospitalID {
			continue
		}
		out = append(out, newItem(*rv, m.ratings[rv.AppointmentID], "Hasta", ""))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, hospitalID, id uuid.UUID) (*Review, error) {
	rv, ok := m.reviews[id]
	if !ok || rv.HospitalID != hospitalID {
		return nil, apperr.NotFound("review")
	}
	cp := *rv
	return &cp, nil
}

func (m *mockRepo) SetReply(_ context.Context, hospitalID, id uuid.UUID, reply *string, repliedAt *time.Time) error {
	rv, ok := m.reviews[id]
	if !ok || rv.HospitalID != hospitalID {
		return apperr.NotFound("review")
	}
	rv.Reply, rv.RepliedAt = reply, repliedAt
	return nil
}

func (m *mockRepo) HospitalRatings(_ context.Context, hospitalID uuid.UUID) ([]int, error) {
	var out []int
	for _, r := range m.ratings {
		if r.HospitalID == hospitalID {
			out = append(out, r.HospitalRating)
		}
	}
	return out, nil
}
