package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// Holiday closes a hospital (DoctorID nil) or a single doctor on a date, either
// for the whole day or between StartTime and EndTime.
type Holiday struct {
	ID         uuid.UUID  `json:"id"`
	HospitalID uuid.UUID  `json:"hospital_id"`
	DoctorID   *uuid.UUID `json:"doctor_id"`
	Date       Date       `json:"date"`
	Reason     string     `json:"reason"`
	IsFullDay  bool       `json:"is_full_day"`
	StartTime  ClockTime  `json:"start_time"`
	EndTime    ClockTime  `json:"end_time"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HospitalWide reports whether the holiday applies to the whole hospital.
func (h *Holiday) HospitalWide() bool { return h.DoctorID == nil }

// Covers reports whether t falls inside the holiday window. Bounds are
// inclusive. A partial holiday missing either bound covers nothing.
func (h *Holiday) Covers(t ClockTime) bool {
	if h.IsFullDay {
		return true
	}
	return t.Between(h.StartTime, h.EndTime)
}

// Validate normalises and checks the holiday. Full-day holidays drop any
// times; partial ones need start < end.
func (h *Holiday) Validate() error {
	h.Reason = strings.TrimSpace(h.Reason)
	if h.Date.IsZero() {
		return apperr.Invalid("date", "date is required")
	}
	if h.Reason == "" {
		return apperr.Invalid("reason", "reason is required")
	}
	if h.IsFullDay {
		h.StartTime, h.EndTime = ClockTime{}, ClockTime{}
		return nil
	}
	if !h.StartTime.Valid() || !h.EndTime.Valid() {
		return apperr.Invalid("start_time", "start and end times are required for a partial holiday")
	}
	if !h.StartTime.Before(h.EndTime) {
		return apperr.Invalid("start_time", "start time must be before end time")
	}
	return nil
}

// HolidayInput is the request body for adding a holiday. IsFullDay defaults to
// true when omitted.
type HolidayInput struct {
	Date      Date      `json:"date"`
	Reason    string    `json:"reason"`
	IsFullDay *bool     `json:"is_full_day"`
	StartTime ClockTime `json:"start_time"`
	EndTime   ClockTime `json:"end_time"`
}

func (in HolidayInput) Holiday() *Holiday {
	full := true
	if in.IsFullDay != nil {
		full = *in.IsFullDay
	}
	return &Holiday{
		Date:      in.Date,
		Reason:    in.Reason,
		IsFullDay: full,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
}

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date              Date       `json:"date"`
	IsCurrentMonth    bool       `json:"is_current_month"`
	IsToday           bool       `json:"is_today"`
	IsPast            bool       `json:"is_past"`
	Holidays          []*Holiday `json:"holidays"`
	HospitalHours     *string    `json:"hospital_hours"`
	DoctorHours       *string    `json:"doctor_hours"`
	HasFullDayHoliday bool       `json:"has_full_day_holiday"`
}

// CalendarGrid is a month rendered as whole Monday-first weeks.
type CalendarGrid struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	MonthName        string          `json:"month_name"`
	Weeks            [][]CalendarDay `json:"weeks"`
	SelectedDoctorID *uuid.UUID      `json:"selected_doctor_id"`
}

// WorkingDoctor is a doctor open on a given weekday. Inactive doctors are
// listed too and flagged.
type WorkingDoctor struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Hours    string    `json:"hours"`
	IsActive bool      `json:"is_active"`
}

// DayDetails describes a single date for the calendar side panel.
type DayDetails struct {
	Date           Date            `json:"date"`
	Weekday        string          `json:"weekday"`
	HospitalHours  *string         `json:"hospital_hours"`
	DoctorHours    *string         `json:"doctor_hours"`
	Holidays       []*Holiday      `json:"holidays"`
	DoctorsWorking []WorkingDoctor `json:"doctors_working"`
}

// DoctorHours pairs a doctor with its weekly schedule.
type DoctorHours struct {
	DoctorID uuid.UUID
	Name     string
	IsActive bool
	Hours    WorkingHours
}
