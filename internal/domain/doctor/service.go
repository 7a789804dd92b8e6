package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/domain/catalog"
	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/blobstore"
	"github.com/CemBlt/dent-admin-app/internal/platform/db"
)

// ServiceValidator checks service ids against the catalog.
type ServiceValidator interface {
	Validate(ctx context.Context, ids []uuid.UUID) error
}

// HolidayCleaner drops the holidays of a doctor being deleted.
type HolidayCleaner interface {
	DeleteDoctorHolidays(ctx context.Context, hospitalID, doctorID uuid.UUID) (int, error)
}

// MediaStore keeps doctor photos.
type MediaStore interface {
	Save(ctx context.Context, hospitalID uuid.UUID, kind blobstore.Kind, up blobstore.Upload) (*blobstore.Object, error)
	Remove(ctx context.Context, url string) error
}

type Service struct {
	repo     Repository
	services ServiceValidator
	holidays HolidayCleaner
	media    MediaStore
	tx       db.TxRunner
	logger   zerolog.Logger
}

func NewService(repo Repository, services ServiceValidator, holidays HolidayCleaner, media MediaStore, tx db.TxRunner, logger zerolog.Logger) *Service {
	return &Service{repo: repo, services: services, holidays: holidays, media: media, tx: tx, logger: logger}
}

func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, f Filter) ([]*Doctor, error) {
	return s.repo.List(ctx, hospitalID, f)
}

func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, hospitalID, id)
}

// Create adds a doctor. Working hours start closed on every day.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, in Input) (*Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	services := catalog.Dedupe(in.Services)
	if err := s.services.Validate(ctx, services); err != nil {
		return nil, err
	}
	d := &Doctor{
		HospitalID: hospitalID,
		Name:       in.Name,
		Surname:    in.Surname,
		Specialty:  in.Specialty,
		Bio:        in.Bio,
		Services:   services,
		IsActive:   true,
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, in Input) (*Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	services := catalog.Dedupe(in.Services)
	if err := s.services.Validate(ctx, services); err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	d.Name = in.Name
	d.Surname = in.Surname
	d.Specialty = in.Specialty
	d.Bio = in.Bio
	d.Services = services
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the doctor together with its holidays, then its photo.
func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	d, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return err
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		n, err := s.holidays.DeleteDoctorHolidays(ctx, hospitalID, id)
		if err != nil {
			return fmt.Errorf("delete doctor holidays: %w", err)
		}
		s.logger.Debug().Str("doctor_id", id.String()).Int("holidays", n).Msg("doctor holidays removed")
		return s.repo.Delete(ctx, hospitalID, id)
	})
	if err != nil {
		return err
	}
	s.discard(ctx, d.Image)
	return nil
}

func (s *Service) UpdateWorkingHours(ctx context.Context, hospitalID, id uuid.UUID, hours scheduling.WorkingHours) (*Doctor, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	d.WorkingHours = hours
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) SetActive(ctx context.Context, hospitalID, id uuid.UUID, active bool) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	if d.IsActive == active {
		return d, nil
	}
	d.IsActive = active
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UploadImage replaces the doctor's photo.
func (s *Service) UploadImage(ctx context.Context, hospitalID, id uuid.UUID, up blobstore.Upload) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}
	obj, err := s.media.Save(ctx, hospitalID, blobstore.KindDoctorPhoto, up)
	if err != nil {
		return nil, err
	}
	old := d.Image
	d.Image = obj.URL
	if err := s.repo.Update(ctx, d); err != nil {
		s.discard(ctx, obj.URL)
		return nil, err
	}
	s.discard(ctx, old)
	return d, nil
}

func (s *Service) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Remove(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("failed to remove doctor photo")
	}
}
