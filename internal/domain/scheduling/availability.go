package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SlotBlocked reports whether time t on date falls inside a hospital-wide
// holiday. Doctor-specific holidays in the list are ignored. An invalid t is
// never blocked.
func SlotBlocked(holidays []*Holiday, date Date, t ClockTime) bool {
	if !t.Valid() {
		return false
	}
	for _, h := range holidays {
		if !h.HospitalWide() || !h.Date.Equal(date) {
			continue
		}
		if h.Covers(t) {
			return true
		}
	}
	return false
}

// Resolver answers slot availability questions against stored holidays.
type Resolver struct {
	holidays HolidayRepository
}

func NewResolver(holidays HolidayRepository) *Resolver {
	return &Resolver{holidays: holidays}
}

// IsSlotBlocked reports whether a booking at date/t would fall inside a
// hospital-wide closure. doctorID does not widen the check to that doctor's
// own holidays; it is accepted so calendar and slot lookups share a shape.
func (r *Resolver) IsSlotBlocked(ctx context.Context, hospitalID uuid.UUID, date Date, t ClockTime, doctorID *uuid.UUID) (bool, error) {
	if !t.Valid() {
		return false, nil
	}
	holidays, err := r.holidays.List(ctx, hospitalID, HolidayQuery{From: date, To: date, HospitalWideOnly: true})
	if err != nil {
		return false, fmt.Errorf("load holidays for %s: %w", date, err)
	}
	return SlotBlocked(holidays, date, t), nil
}

// IsSlotBlockedAt is IsSlotBlocked for an unparsed time string. Unparseable
// input is not blocked.
func (r *Resolver) IsSlotBlockedAt(ctx context.Context, hospitalID uuid.UUID, date Date, raw string, doctorID *uuid.UUID) (bool, error) {
	return r.IsSlotBlocked(ctx, hospitalID, date, LenientClockTime(raw), doctorID)
}

// Window holds the hospital-wide holidays of a date range for repeated slot
// checks without a query per slot.
type Window struct {
	holidays []*Holiday
}

// Window loads hospital-wide holidays between from and to inclusive.
func (r *Resolver) Window(ctx context.Context, hospitalID uuid.UUID, from, to Date) (*Window, error) {
	holidays, err := r.holidays.List(ctx, hospitalID, HolidayQuery{From: from, To: to, HospitalWideOnly: true})
	if err != nil {
		return nil, fmt.Errorf("load holidays %s..%s: %w", from, to, err)
	}
	return &Window{holidays: holidays}, nil
}

func (w *Window) IsSlotBlocked(date Date, t ClockTime) bool {
	return SlotBlocked(w.holidays, date, t)
}

// NewWindow wraps an already loaded holiday list.
func NewWindow(holidays []*Holiday) *Window {
	return &Window{holidays: holidays}
}
