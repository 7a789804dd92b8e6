package hospital

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/domain/catalog"
	"github.com/CemBlt/dent-admin-app/internal/domain/location"
	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/blobstore"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// LocationResolver validates a province > district > neighborhood chain.
type LocationResolver interface {
	Resolve(provinceID, districtID, neighborhoodID string) (*location.Snapshot, error)
}

// ServiceValidator checks service ids against the catalog.
type ServiceValidator interface {
	Validate(ctx context.Context, ids []uuid.UUID) error
}

// MediaStore keeps uploaded images.
type MediaStore interface {
	Save(ctx context.Context, hospitalID uuid.UUID, kind blobstore.Kind, up blobstore.Upload) (*blobstore.Object, error)
	Remove(ctx context.Context, url string) error
}

type Service struct {
	repo      Repository
	locations LocationResolver
	services  ServiceValidator
	media     MediaStore
	logger    zerolog.Logger
}

func NewService(repo Repository, locations LocationResolver, services ServiceValidator, media MediaStore, logger zerolog.Logger) *Service {
	return &Service{repo: repo, locations: locations, services: services, media: media, logger: logger}
}

func (s *Service) Get(ctx context.Context, hospitalID uuid.UUID) (*Hospital, error) {
	return s.repo.GetByID(ctx, hospitalID)
}

func (s *Service) List(ctx context.Context) ([]*Hospital, error) {
	return s.repo.List(ctx)
}

// HospitalExists lets the tenant middleware reject unknown hospitals.
func (s *Service) HospitalExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// ContactEmail is where hospital-level notifications are sent.
func (s *Service) ContactEmail(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return "", err
	}
	return h.Email, nil
}

// Create registers a new hospital, closed every day until hours are set.
func (s *Service) Create(ctx context.Context, name string) (*Hospital, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "name is required")
	}
	h := &Hospital{Name: name}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create hospital: %w", err)
	}
	return h, nil
}

func (s *Service) UpdateGeneralInfo(ctx context.Context, hospitalID uuid.UUID, in GeneralInfo) (*Hospital, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	loc, err := s.locations.Resolve(in.ProvinceID, in.DistrictID, in.NeighborhoodID)
	if err != nil {
		return nil, err
	}
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	h.Name = in.Name
	h.Address = strings.TrimSpace(in.Address)
	h.Phone = in.Phone
	h.Email = in.Email
	h.Description = strings.TrimSpace(in.Description)
	h.Latitude = in.Latitude
	h.Longitude = in.Longitude
	h.ProvinceID, h.ProvinceName = loc.Province.ID, loc.Province.Name
	h.DistrictID, h.DistrictName = loc.District.ID, loc.District.Name
	h.NeighborhoodID, h.NeighborhoodName = loc.Neighborhood.ID, loc.Neighborhood.Name
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) ReplaceServices(ctx context.Context, hospitalID uuid.UUID, ids []uuid.UUID) (*Hospital, error) {
	ids = catalog.Dedupe(ids)
	if err := s.services.Validate(ctx, ids); err != nil {
		return nil, err
	}
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	h.Services = ids
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) UpdateWorkingHours(ctx context.Context, hospitalID uuid.UUID, hours scheduling.WorkingHours) (*Hospital, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	h.WorkingHours = hours
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// UploadLogo stores the new logo and then drops the previous file.
func (s *Service) UploadLogo(ctx context.Context, hospitalID uuid.UUID, up blobstore.Upload) (*Hospital, error) {
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	obj, err := s.media.Save(ctx, hospitalID, blobstore.KindLogo, up)
	if err != nil {
		return nil, err
	}
	old := h.Image
	h.Image = obj.URL
	if err := s.repo.Update(ctx, h); err != nil {
		s.discard(ctx, obj.URL)
		return nil, err
	}
	s.discard(ctx, old)
	return h, nil
}

func (s *Service) AddGalleryImage(ctx context.Context, hospitalID uuid.UUID, up blobstore.Upload) (*Hospital, error) {
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if len(h.Gallery) >= MaxGalleryImages {
		return nil, apperr.Invalid("gallery", "at most %d images are allowed", MaxGalleryImages)
	}
	obj, err := s.media.Save(ctx, hospitalID, blobstore.KindGallery, up)
	if err != nil {
		return nil, err
	}
	h.Gallery = append(h.Gallery, obj.URL)
	if err := s.repo.Update(ctx, h); err != nil {
		s.discard(ctx, obj.URL)
		return nil, err
	}
	return h, nil
}

func (s *Service) RemoveGalleryImage(ctx context.Context, hospitalID uuid.UUID, index int) (*Hospital, error) {
	h, err := s.repo.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(h.Gallery) {
		return nil, apperr.NotFound("gallery image")
	}
	url := h.Gallery[index]
	h.Gallery = append(h.Gallery[:index:index], h.Gallery[index+1:]...)
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	s.discard(ctx, url)
	return h, nil
}

// discard removes a stored file, logging failures. The row is already
// consistent by the time it runs.
func (s *Service) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Remove(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("failed to remove media")
	}
}
