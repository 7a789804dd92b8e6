package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending: true, StatusCompleted: true, StatusCancelled: true,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", apperr.Invalid("status", "invalid appointment status: %q", s)
	}
	return st, nil
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusCancelled }

// Appointment is a booking made by a patient through the external booking
// client. RawTime keeps the stored value; Time is its parsed form and is
// invalid when RawTime is malformed.
type Appointment struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"user_id"`
	HospitalID  uuid.UUID            `json:"hospital_id"`
	DoctorID    *uuid.UUID           `json:"doctor_id"`
	ServiceID   *uuid.UUID           `json:"service_id"`
	Date        scheduling.Date      `json:"date"`
	Time        scheduling.ClockTime `json:"-"`
	RawTime     string               `json:"time"`
	Status      Status               `json:"status"`
	Notes       string               `json:"notes"`
	PatientName string               `json:"patient_name,omitempty"`
	DoctorName  string               `json:"doctor_name,omitempty"`
	ServiceName string               `json:"service_name,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Filter narrows an appointment listing. Every set field must match; From and
// To are inclusive calendar dates.
type Filter struct {
	Status    Status
	DoctorID  *uuid.UUID
	ServiceID *uuid.UUID
	From      scheduling.Date
	To        scheduling.Date
}

func (f Filter) Validate() error {
	if f.Status != "" && !validStatuses[f.Status] {
		return apperr.Invalid("status", "invalid appointment status: %q", f.Status)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return apperr.Invalid("date_to", "date_to must not be before date_from")
	}
	return nil
}

// Matches applies the filter to a single appointment.
func (f Filter) Matches(a *Appointment) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.DoctorID != nil && (a.DoctorID == nil || *a.DoctorID != *f.DoctorID) {
		return false
	}
	if f.ServiceID != nil && (a.ServiceID == nil || *a.ServiceID != *f.ServiceID) {
		return false
	}
	if !f.From.IsZero() && a.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && a.Date.After(f.To) {
		return false
	}
	return true
}

// Patch carries the fields an admin may change. Nil fields are left alone.
type Patch struct {
	Status *Status `json:"status"`
	Notes  *string `json:"notes"`
}

// Summary counts appointments by status plus those dated today.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}

// ListItem is an appointment annotated with whether its slot now falls inside
// a hospital-wide holiday.
type ListItem struct {
	*Appointment
	Blocked bool `json:"blocked"`
}
