package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// HolidayQuery narrows a holiday listing. Zero From/To leave that side open.
type HolidayQuery struct {
	From             Date
	To               Date
	HospitalWideOnly bool
	DoctorID         *uuid.UUID
}

type HolidayRepository interface {
	Create(ctx context.Context, h *Holiday) error
	GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Holiday, error)
	Delete(ctx context.Context, hospitalID, id uuid.UUID) error
	List(ctx context.Context, hospitalID uuid.UUID, q HolidayQuery) ([]*Holiday, error)
	DeleteByDoctor(ctx context.Context, hospitalID, doctorID uuid.UUID) (int, error)
}

// HoursRepository reads the weekly schedules owned by hospitals and doctors.
type HoursRepository interface {
	HospitalHours(ctx context.Context, hospitalID uuid.UUID) (WorkingHours, error)
	DoctorHours(ctx context.Context, hospitalID, doctorID uuid.UUID) (*DoctorHours, error)
	ListDoctorHours(ctx context.Context, hospitalID uuid.UUID) ([]*DoctorHours, error)
}
