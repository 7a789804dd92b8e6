package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
	"github.com/CemBlt/dent-admin-app/internal/domain/catalog"
	"github.com/CemBlt/dent-admin-app/internal/domain/doctor"
	"github.com/CemBlt/dent-admin-app/internal/domain/review"
	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
)

type Appointments interface {
	Summary(ctx context.Context, hospitalID uuid.UUID) (*appointment.Summary, error)
	Today(ctx context.Context, hospitalID uuid.UUID) ([]*appointment.Appointment, error)
	CountByService(ctx context.Context, hospitalID uuid.UUID) (map[uuid.UUID]int, error)
}

type Doctors interface {
	List(ctx context.Context, hospitalID uuid.UUID, f doctor.Filter) ([]*doctor.Doctor, error)
}

type Catalog interface {
	List(ctx context.Context) ([]*catalog.MedicalService, error)
}

type Reviews interface {
	AverageRating(ctx context.Context, hospitalID uuid.UUID) (float64, error)
	Latest(ctx context.Context, hospitalID uuid.UUID, n int) ([]*review.Item, error)
}

type Holidays interface {
	UpcomingHolidays(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*scheduling.Holiday, error)
}

type Service struct {
	appointments Appointments
	doctors      Doctors
	catalog      Catalog
	reviews      Reviews
	holidays     Holidays
	now          func() time.Time
}

func NewService(appointments Appointments, doctors Doctors, catalog Catalog, reviews Reviews, holidays Holidays) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		catalog:      catalog,
		reviews:      reviews,
		holidays:     holidays,
		now:          time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Build gathers every dashboard section. Sections load concurrently; the first
// failure cancels the rest.
func (s *Service) Build(ctx context.Context, hospitalID uuid.UUID) (*Dashboard, error) {
	today := scheduling.DateOf(s.now())
	d := &Dashboard{Date: today}

	var (
		summary  *appointment.Summary
		todays   []*appointment.Appointment
		counts   map[uuid.UUID]int
		doctors  []*doctor.Doctor
		services []*catalog.MedicalService
		avg      float64
		latest   []*review.Item
		holidays []*scheduling.Holiday
	)

	g, ctx := errgroup.WithContext(ctx)
	load := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	load("summary", func() (err error) {
		summary, err = s.appointments.Summary(ctx, hospitalID)
		return
	})
	load("today", func() (err error) {
		todays, err = s.appointments.Today(ctx, hospitalID)
		return
	})
	load("service counts", func() (err error) {
		counts, err = s.appointments.CountByService(ctx, hospitalID)
		return
	})
	load("doctors", func() (err error) {
		doctors, err = s.doctors.List(ctx, hospitalID, doctor.Filter{})
		return
	})
	load("services", func() (err error) {
		services, err = s.catalog.List(ctx)
		return
	})
	load("rating", func() (err error) {
		avg, err = s.reviews.AverageRating(ctx, hospitalID)
		return
	})
	load("reviews", func() (err error) {
		latest, err = s.reviews.Latest(ctx, hospitalID, reviewLimit)
		return
	})
	load("holidays", func() (err error) {
		holidays, err = s.holidays.UpcomingHolidays(ctx, hospitalID, holidayLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.KPIs = KPIs{
		PendingAppointments: summary.Pending,
		TodayAppointments:   summary.Today,
		DoctorCount:         len(doctors),
		AverageRating:       avg,
	}
	d.TodayAppointments = appointmentCards(todays)
	d.DoctorStatus = doctorStatus(doctors, today)
	d.ServiceStats = serviceStats(services, counts)
	d.LatestReviews = reviewCards(latest)
	d.UpcomingHolidays = holidayCards(holidays)
	return d, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func appointmentCards(items []*appointment.Appointment) []AppointmentCard {
	if len(items) > todayLimit {
		items = items[:todayLimit]
	}
	out := make([]AppointmentCard, 0, len(items))
	for _, a := range items {
		out = append(out, AppointmentCard{
			ID:      a.ID,
			Time:    a.RawTime,
			Patient: orDefault(a.PatientName, "Hasta"),
			Doctor:  orDefault(a.DoctorName, "Doktor"),
			Service: orDefault(a.ServiceName, "Hizmet"),
			Status:  string(a.Status),
		})
	}
	return out
}

func doctorStatus(doctors []*doctor.Doctor, today scheduling.Date) []DoctorStatus {
	out := make([]DoctorStatus, 0, len(doctors))
	for _, d := range doctors {
		hours := d.WorkingHours.On(today)
		st := DoctorStatus{
			ID:          d.ID,
			Name:        d.FullName(),
			Specialty:   d.Specialty,
			Status:      statusOnLeave,
			IsAvailable: hours.IsAvailable,
			Hours:       hours.Label(),
		}
		if hours.IsAvailable {
			st.Status = statusOffice
		}
		out = append(out, st)
	}
	return out
}

// serviceStats ranks catalog services by appointment count. Percentages are
// shares of all counted appointments, rounded half away from zero.
func serviceStats(services []*catalog.MedicalService, counts map[uuid.UUID]int) []ServiceStat {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		total = 1
	}
	out := make([]ServiceStat, 0, len(services))
	for _, svc := range services {
		n := counts[svc.ID]
		out = append(out, ServiceStat{
			ID:      svc.ID,
			Name:    svc.Name,
			Count:   n,
			Percent: int(math.Round(float64(n) / float64(total) * 100)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > serviceLimit {
		out = out[:serviceLimit]
	}
	return out
}

func reviewCards(items []*review.Item) []ReviewCard {
	out := make([]ReviewCard, 0, len(items))
	for _, it := range items {
		out = append(out, ReviewCard{
			Patient: orDefault(it.PatientName, "Hasta"),
			Comment: it.Comment,
			Date:    it.CreatedAt.Format("2006-01-02"),
		})
	}
	return out
}

func holidayCards(items []*scheduling.Holiday) []HolidayCard {
	out := make([]HolidayCard, 0, len(items))
	for _, h := range items {
		out = append(out, HolidayCard{
			Date:   h.Date,
			Label:  fmt.Sprintf("%d %s %d", h.Date.Day(), scheduling.MonthName(h.Date.Month()), h.Date.Year()),
			Reason: h.Reason,
		})
	}
	return out
}
