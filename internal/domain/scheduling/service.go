package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/platform/metrics"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type Service struct {
	holidays HolidayRepository
	hours    HoursRepository
	resolver *Resolver
	now      func() time.Time
}

func NewService(holidays HolidayRepository, hours HoursRepository) *Service {
	return &Service{
		holidays: holidays,
		hours:    hours,
		resolver: NewResolver(holidays),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for "today".
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) Resolver() *Resolver { return s.resolver }

func (s *Service) today() Date { return DateOf(s.now()) }

// -- Calendar --

func (s *Service) BuildCalendar(ctx context.Context, hospitalID uuid.UUID, year, month int, doctorID *uuid.UUID) (*CalendarGrid, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Invalid("month", "month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return nil, apperr.Invalid("year", "year out of range: %d", year)
	}

	hospitalHours, err := s.hours.HospitalHours(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("hospital hours: %w", err)
	}

	in := CalendarInput{
		Year:          year,
		Month:         time.Month(month),
		HospitalHours: hospitalHours,
		DoctorID:      doctorID,
	}
	if doctorID != nil {
		doc, err := s.hours.DoctorHours(ctx, hospitalID, *doctorID)
		if err != nil {
			return nil, fmt.Errorf("doctor hours: %w", err)
		}
		in.DoctorHours = &doc.Hours
	}

	from, to := GridBounds(year, time.Month(month))
	in.Holidays, err = s.holidays.List(ctx, hospitalID, HolidayQuery{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}

	view := "hospital"
	if doctorID != nil {
		view = "doctor"
	}
	metrics.ObserveCalendarBuild(view)
	return BuildCalendar(in, s.today()), nil
}

// DayDetails lists hours and scoped holidays for one date. In the hospital
// view it also lists the active doctors open on that weekday.
func (s *Service) DayDetails(ctx context.Context, hospitalID uuid.UUID, date Date, doctorID *uuid.UUID) (*DayDetails, error) {
	if date.IsZero() {
		return nil, apperr.Invalid("date", "date is required")
	}
	hospitalHours, err := s.hours.HospitalHours(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("hospital hours: %w", err)
	}

	q := HolidayQuery{From: date, To: date, HospitalWideOnly: doctorID == nil, DoctorID: doctorID}
	holidays, err := s.holidays.List(ctx, hospitalID, q)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}

	out := &DayDetails{
		Date:           date,
		Weekday:        date.Weekday().String(),
		HospitalHours:  hospitalHours.On(date).Label(),
		Holidays:       FilterScope(holidays, doctorID),
		DoctorsWorking: []WorkingDoctor{},
	}

	if doctorID != nil {
		doc, err := s.hours.DoctorHours(ctx, hospitalID, *doctorID)
		if err != nil {
			return nil, fmt.Errorf("doctor hours: %w", err)
		}
		out.DoctorHours = doc.Hours.On(date).Label()
		return out, nil
	}

	doctors, err := s.hours.ListDoctorHours(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("doctors: %w", err)
	}
	for _, d := range doctors {
		if label := d.Hours.On(date).Label(); label != nil {
			out.DoctorsWorking = append(out.DoctorsWorking, WorkingDoctor{
				ID:       d.DoctorID,
				Name:     d.Name,
				Hours:    *label,
				IsActive: d.IsActive,
			})
		}
	}
	return out, nil
}

// -- Availability --

func (s *Service) IsSlotBlocked(ctx context.Context, hospitalID uuid.UUID, date Date, t ClockTime, doctorID *uuid.UUID) (bool, error) {
	return s.resolver.IsSlotBlocked(ctx, hospitalID, date, t, doctorID)
}

// -- Holidays --

func (s *Service) ListHospitalHolidays(ctx context.Context, hospitalID uuid.UUID) ([]*Holiday, error) {
	return s.holidays.List(ctx, hospitalID, HolidayQuery{HospitalWideOnly: true})
}

// UpcomingHolidays returns hospital-wide holidays from today on, at most limit.
func (s *Service) UpcomingHolidays(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*Holiday, error) {
	items, err := s.holidays.List(ctx, hospitalID, HolidayQuery{From: s.today(), HospitalWideOnly: true})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Service) AddHospitalHoliday(ctx context.Context, hospitalID uuid.UUID, h *Holiday) error {
	h.HospitalID = hospitalID
	h.DoctorID = nil
	if err := h.Validate(); err != nil {
		return err
	}
	return s.holidays.Create(ctx, h)
}

func (s *Service) ListDoctorHolidays(ctx context.Context, hospitalID, doctorID uuid.UUID) ([]*Holiday, error) {
	if _, err := s.hours.DoctorHours(ctx, hospitalID, doctorID); err != nil {
		return nil, err
	}
	return s.holidays.List(ctx, hospitalID, HolidayQuery{DoctorID: &doctorID})
}

func (s *Service) AddDoctorHoliday(ctx context.Context, hospitalID, doctorID uuid.UUID, h *Holiday) error {
	if _, err := s.hours.DoctorHours(ctx, hospitalID, doctorID); err != nil {
		return err
	}
	h.HospitalID = hospitalID
	h.DoctorID = &doctorID
	if err := h.Validate(); err != nil {
		return err
	}
	return s.holidays.Create(ctx, h)
}

// DeleteHospitalHoliday removes a hospital-wide holiday.
func (s *Service) DeleteHospitalHoliday(ctx context.Context, hospitalID, id uuid.UUID) error {
	h, err := s.holidays.GetByID(ctx, hospitalID, id)
	if err != nil {
		return err
	}
	if !h.HospitalWide() {
		return apperr.NotFound("holiday")
	}
	return s.holidays.Delete(ctx, hospitalID, id)
}

// DeleteDoctorHoliday removes a holiday owned by doctorID.
func (s *Service) DeleteDoctorHoliday(ctx context.Context, hospitalID, doctorID, id uuid.UUID) error {
	h, err := s.holidays.GetByID(ctx, hospitalID, id)
	if err != nil {
		return err
	}
	if h.DoctorID == nil || *h.DoctorID != doctorID {
		return apperr.NotFound("holiday")
	}
	return s.holidays.Delete(ctx, hospitalID, id)
}

// DeleteDoctorHolidays removes every holiday of a doctor being deleted.
func (s *Service) DeleteDoctorHolidays(ctx context.Context, hospitalID, doctorID uuid.UUID) (int, error) {
	return s.holidays.DeleteByDoctor(ctx, hospitalID, doctorID)
}
