package dashboard

import (
	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
)

const (
	todayLimit    = 6
	serviceLimit  = 4
	reviewLimit   = 3
	holidayLimit  = 4
	statusOffice  = "Ofiste"
	statusOnLeave = "İzinli"
)

type KPIs struct {
	PendingAppointments int     `json:"pending_appointments"`
	TodayAppointments   int     `json:"today_appointments"`
	DoctorCount         int     `json:"doctor_count"`
	AverageRating       float64 `json:"average_rating"`
}

type AppointmentCard struct {
	ID      uuid.UUID `json:"id"`
	Time    string    `json:"time"`
	Patient string    `json:"patient"`
	Doctor  string    `json:"doctor"`
	Service string    `json:"service"`
	Status  string    `json:"status"`
}

type DoctorStatus struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Specialty   string    `json:"specialty"`
	Status      string    `json:"status"`
	IsAvailable bool      `json:"is_available"`
	Hours       *string   `json:"hours"`
}

type ServiceStat struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Count   int       `json:"count"`
	Percent int       `json:"percent"`
}

type ReviewCard struct {
	Patient string `json:"patient"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

type HolidayCard struct {
	Date   scheduling.Date `json:"date"`
	Label  string          `json:"label"`
	Reason string          `json:"reason"`
}

// Dashboard is the panel landing page for one hospital.
type Dashboard struct {
	Date              scheduling.Date   `json:"date"`
	KPIs              KPIs              `json:"kpis"`
	TodayAppointments []AppointmentCard `json:"today_appointments"`
	DoctorStatus      []DoctorStatus    `json:"doctor_status"`
	ServiceStats      []ServiceStat     `json:"service_stats"`
	LatestReviews     []ReviewCard      `json:"latest_reviews"`
	UpcomingHolidays  []HolidayCard     `json:"upcoming_holidays"`
}
