package scheduling

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// Weekday numbers days Monday=0 through Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Weekdays lists all days in order, Monday first.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// WeekdayOf converts a time.Weekday (Sunday=0) into a Monday-first Weekday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseWeekday parses a lowercase English day name.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		if name == s {
			return Weekday(i), true
		}
	}
	return 0, false
}

// DayHours is the opening window for one weekday.
type DayHours struct {
	IsAvailable bool      `json:"isAvailable"`
	Start       ClockTime `json:"start"`
	End         ClockTime `json:"end"`
}

// Label renders "HH:MM - HH:MM" for an open day with both times set, or nil.
func (h DayHours) Label() *string {
	if !h.IsAvailable || !h.Start.Valid() || !h.End.Valid() {
		return nil
	}
	s := h.Start.String() + " - " + h.End.String()
	return &s
}

// WorkingHours holds one DayHours per weekday. The zero value is closed every
// day.
type WorkingHours [7]DayHours

func (w WorkingHours) Day(d Weekday) DayHours { return w[d] }

// On returns the hours for the weekday of date.
func (w WorkingHours) On(date Date) DayHours { return w[date.Weekday()] }

// Validate checks every open day has both times and every day with both times
// has start before end.
func (w WorkingHours) Validate() error {
	for _, d := range Weekdays {
		h := w[d]
		if h.IsAvailable && (!h.Start.Valid() || !h.End.Valid()) {
			return apperr.Invalid(d.String(), "start and end times are required when the day is open")
		}
		if h.Start.Valid() && h.End.Valid() && !h.Start.Before(h.End) {
			return apperr.Invalid(d.String(), "start time %s must be before end time %s", h.Start, h.End)
		}
	}
	return nil
}

func (w WorkingHours) MarshalJSON() ([]byte, error) {
	m := make(map[string]DayHours, len(w))
	for _, d := range Weekdays {
		m[d.String()] = w[d]
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the weekday-keyed object form. Missing days are
// closed; unknown keys are rejected.
func (w *WorkingHours) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = WorkingHours{}
		return nil
	}
	var m map[string]DayHours
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("working hours: %w", err)
	}
	var out WorkingHours
	for key, h := range m {
		d, ok := ParseWeekday(key)
		if !ok {
			return fmt.Errorf("working hours: unknown day %q", key)
		}
		out[d] = h
	}
	*w = out
	return nil
}

// Scan reads a jsonb column.
func (w *WorkingHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = WorkingHours{}
		return nil
	case []byte:
		return w.UnmarshalJSON(v)
	case string:
		return w.UnmarshalJSON([]byte(v))
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return w.UnmarshalJSON(b)
	default:
		return fmt.Errorf("cannot scan %T into WorkingHours", src)
	}
}
