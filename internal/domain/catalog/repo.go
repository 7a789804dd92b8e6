package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context) ([]*MedicalService, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalService, error)
	Create(ctx context.Context, s *MedicalService) error
	Update(ctx context.Context, s *MedicalService) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Missing returns the ids that do not exist in the catalog.
	Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// Assignments maintains the service lists kept on doctors and hospitals.
type Assignments interface {
	// RemoveEverywhere drops serviceID from every doctor and hospital.
	RemoveEverywhere(ctx context.Context, serviceID uuid.UUID) error
	// AssignDoctors makes doctorIDs the exact set of the hospital's doctors
	// offering serviceID.
	AssignDoctors(ctx context.Context, hospitalID, serviceID uuid.UUID, doctorIDs []uuid.UUID) error
	// UnknownDoctors returns the ids not belonging to the hospital.
	UnknownDoctors(ctx context.Context, hospitalID uuid.UUID, doctorIDs []uuid.UUID) ([]uuid.UUID, error)
}
