package scheduling

import (
	"time"

	"github.com/google/uuid"
)

var monthNames = [12]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthName returns the Turkish display name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// GridBounds returns the Monday on or before the first of the month and the
// Sunday on or after its last day.
func GridBounds(year int, month time.Month) (Date, Date) {
	first := NewDate(year, month, 1)
	last := NewDate(year, month+1, 0)
	start := first.AddDays(-int(first.Weekday()))
	end := last.AddDays(int(Sunday - last.Weekday()))
	return start, end
}

// CalendarInput carries everything BuildCalendar needs. Holidays may contain
// any scope and any dates; BuildCalendar picks what applies per cell.
type CalendarInput struct {
	Year          int
	Month         time.Month
	HospitalHours WorkingHours
	DoctorID      *uuid.UUID
	DoctorHours   *WorkingHours
	Holidays      []*Holiday
}

// BuildCalendar lays out the month as whole weeks. In a doctor view each cell
// lists only that doctor's holidays, otherwise only hospital-wide ones.
// HasFullDayHoliday always reflects hospital-wide full-day closures.
func BuildCalendar(in CalendarInput, today Date) *CalendarGrid {
	byDate := make(map[string][]*Holiday)
	for _, h := range in.Holidays {
		byDate[h.Date.String()] = append(byDate[h.Date.String()], h)
	}

	start, end := GridBounds(in.Year, in.Month)
	monthStart := NewDate(in.Year, in.Month, 1)

	grid := &CalendarGrid{
		Year:             in.Year,
		Month:            int(in.Month),
		MonthName:        MonthName(in.Month),
		SelectedDoctorID: in.DoctorID,
	}

	var week []CalendarDay
	for d := start; !d.After(end); d = d.AddDays(1) {
		day := CalendarDay{
			Date:           d,
			IsCurrentMonth: d.SameMonth(monthStart),
			IsToday:        d.Equal(today),
			IsPast:         d.Before(today),
			Holidays:       []*Holiday{},
			HospitalHours:  in.HospitalHours.On(d).Label(),
		}
		if in.DoctorID != nil && in.DoctorHours != nil {
			day.DoctorHours = in.DoctorHours.On(d).Label()
		}
		for _, h := range byDate[d.String()] {
			if h.HospitalWide() && h.IsFullDay {
				day.HasFullDayHoliday = true
			}
			if scopedTo(h, in.DoctorID) {
				day.Holidays = append(day.Holidays, h)
			}
		}
		week = append(week, day)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}

func scopedTo(h *Holiday, doctorID *uuid.UUID) bool {
	if doctorID == nil {
		return h.HospitalWide()
	}
	return h.DoctorID != nil && *h.DoctorID == *doctorID
}

// FilterScope keeps the holidays visible in the hospital view (doctorID nil)
// or in the given doctor's view.
func FilterScope(holidays []*Holiday, doctorID *uuid.UUID) []*Holiday {
	out := make([]*Holiday, 0, len(holidays))
	for _, h := range holidays {
		if scopedTo(h, doctorID) {
			out = append(out, h)
		}
	}
	return out
}
