package scheduling

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision. The zero value
// is "absent" and is encoded as JSON null / SQL NULL.
type ClockTime struct {
	minutes int
	valid   bool
}

// NewClockTime returns the clock time hour:minute. Out of range values yield
// an absent ClockTime.
func NewClockTime(hour, minute int) ClockTime {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}
	}
	return ClockTime{minutes: hour*60 + minute, valid: true}
}

// ParseClockTime parses "HH:MM", also accepting a trailing seconds component
// ("HH:MM:SS" or "HH:MM:SS.ffffff") as produced by PostgreSQL time columns.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return ClockTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return ClockTime{}, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec := parts[2]
		if i := strings.IndexByte(sec, '.'); i >= 0 {
			sec = sec[:i]
		}
		if n, err := strconv.Atoi(sec); err != nil || n < 0 || n > 59 {
			return ClockTime{}, fmt.Errorf("invalid second in %q", s)
		}
	}
	ct := NewClockTime(hour, minute)
	if !ct.valid {
		return ClockTime{}, fmt.Errorf("clock time out of range: %q", s)
	}
	return ct, nil
}

// LenientClockTime parses s and returns an absent ClockTime when it cannot be
// parsed.
func LenientClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		return ClockTime{}
	}
	return ct
}

// ClockOf returns the wall-clock time of t.
func ClockOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

func (c ClockTime) Valid() bool  { return c.valid }
func (c ClockTime) Minutes() int { return c.minutes }

func (c ClockTime) Before(o ClockTime) bool { return c.minutes < o.minutes }
func (c ClockTime) After(o ClockTime) bool  { return c.minutes > o.minutes }

// Between reports whether start <= c <= end.
func (c ClockTime) Between(start, end ClockTime) bool {
	return c.valid && start.valid && end.valid &&
		c.minutes >= start.minutes && c.minutes <= end.minutes
}

func (c ClockTime) String() string {
	if !c.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ClockTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("clock time must be a string: %w", err)
	}
	if s == "" {
		*c = ClockTime{}
		return nil
	}
	ct, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// Scan implements sql.Scanner for time and text columns.
func (c *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = ClockTime{}
		return nil
	case string:
		ct, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*c = ct
		return nil
	case []byte:
		return c.Scan(string(v))
	case time.Time:
		*c = ClockOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}

// Value implements driver.Valuer.
func (c ClockTime) Value() (driver.Value, error) {
	if !c.valid {
		return nil, nil
	}
	return c.String(), nil
}
