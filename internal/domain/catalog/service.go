package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type Service struct {
	repo   Repository
	assign Assignments
	tx     db.TxRunner
}

func NewService(repo Repository, assign Assignments, tx db.TxRunner) *Service {
	return &Service{repo: repo, assign: assign, tx: tx}
}

func (s *Service) List(ctx context.Context) ([]*MedicalService, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicalService, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*MedicalService, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	svc := &MedicalService{}
	in.apply(svc)
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*MedicalService, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(svc)
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Delete removes the service and strips it from every doctor and hospital.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.assign.RemoveEverywhere(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

// ReplaceDoctors sets which of the hospital's doctors offer the service.
func (s *Service) ReplaceDoctors(ctx context.Context, hospitalID, serviceID uuid.UUID, doctorIDs []uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, serviceID); err != nil {
		return err
	}
	doctorIDs = Dedupe(doctorIDs)
	unknown, err := s.assign.UnknownDoctors(ctx, hospitalID, doctorIDs)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		return apperr.Invalid("doctor_ids", "unknown doctor %s", unknown[0])
	}
	return s.assign.AssignDoctors(ctx, hospitalID, serviceID, doctorIDs)
}

// Validate checks that every id names a catalog entry. Used by hospital and
// doctor updates.
func (s *Service) Validate(ctx context.Context, ids []uuid.UUID) error {
	missing, err := s.repo.Missing(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Invalid("services", "unknown service %s", missing[0])
	}
	return nil
}

// Dedupe drops repeated ids, keeping first occurrences in order.
func Dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
