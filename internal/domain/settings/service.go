package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
)

// AppointmentSource lists appointments for the spreadsheet export.
type AppointmentSource interface {
	Filter(ctx context.Context, hospitalID uuid.UUID, f appointment.Filter) ([]*appointment.Appointment, error)
}

type Service struct {
	repo         Repository
	data         DataSource
	appointments AppointmentSource
	now          func() time.Time
}

func NewService(repo Repository, data DataSource, appointments AppointmentSource) *Service {
	return &Service{repo: repo, data: data, appointments: appointments, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Get returns the hospital's settings with defaults filled in.
func (s *Service) Get(ctx context.Context, hospitalID uuid.UUID) (Settings, error) {
	stored, err := s.repo.Get(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return withDefaults(stored), nil
}

// Update merges updates into one category and returns the full settings.
func (s *Service) Update(ctx context.Context, hospitalID uuid.UUID, category string, updates map[string]any) (Settings, error) {
	clean, err := validateUpdate(category, updates)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	for k, v := range clean {
		current[category][k] = v
	}
	if err := s.repo.Save(ctx, hospitalID, current); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return current, nil
}

func (s *Service) Stats(ctx context.Context, hospitalID uuid.UUID) (map[string]int, error) {
	return s.data.Counts(ctx, hospitalID)
}

// Export is the full JSON backup of a hospital.
type Export struct {
	ExportedAt time.Time                  `json:"exported_at"`
	HospitalID uuid.UUID                  `json:"hospital_id"`
	Settings   Settings                   `json:"settings"`
	Data       map[string]json.RawMessage `json:"data"`
}

func (s *Service) Export(ctx context.Context, hospitalID uuid.UUID) (*Export, error) {
	current, err := s.Get(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	data, err := s.data.Dump(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	return &Export{
		ExportedAt: s.now().UTC(),
		HospitalID: hospitalID,
		Settings:   current,
		Data:       data,
	}, nil
}

// ExportAppointments renders the hospital's appointments as an xlsx workbook.
func (s *Service) ExportAppointments(ctx context.Context, hospitalID uuid.UUID, f appointment.Filter) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	items, err := s.appointments.Filter(ctx, hospitalID, f)
	if err != nil {
		return nil, err
	}
	return AppointmentsWorkbook(items)
}
