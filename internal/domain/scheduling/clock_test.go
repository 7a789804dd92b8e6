package scheduling

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:05", "09:05", false},
		{"14:00:00", "14:00", false},
		{"23:59:59.999999", "23:59", false},
		{"00:00", "00:00", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"12:5", "", true},
		{"noon", "", true},
		{"", "", true},
		{"12", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, got.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLenientClockTime(t *testing.T) {
	assert.False(t, LenientClockTime("not-a-time").Valid())
	assert.Equal(t, "08:30", LenientClockTime("08:30").String())
}

func TestClockTime_Between(t *testing.T) {
	start, end := clock("13:00"), clock("15:00")
	assert.True(t, clock("13:00").Between(start, end))
	assert.True(t, clock("15:00").Between(start, end))
	assert.True(t, clock("14:00").Between(start, end))
	assert.False(t, clock("12:59").Between(start, end))
	assert.False(t, clock("15:01").Between(start, end))
	assert.False(t, ClockTime{}.Between(start, end))
	assert.False(t, clock("14:00").Between(ClockTime{}, end))
}

func TestClockTime_JSON(t *testing.T) {
	var v struct {
		A ClockTime `json:"a"`
		B ClockTime `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"10:30","b":null}`), &v))
	assert.Equal(t, "10:30", v.A.String())
	assert.False(t, v.B.Valid())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"10:30","b":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"25:00"}`), &v))
}

func TestClockTime_Scan(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.Scan("14:00:00"))
	assert.Equal(t, "14:00", c.String())

	require.NoError(t, c.Scan(time.Date(0, 1, 1, 7, 45, 0, 0, time.UTC)))
	assert.Equal(t, "07:45", c.String())

	require.NoError(t, c.Scan(nil))
	assert.False(t, c.Valid())

	v, err := c.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate(t *testing.T) {
	d := date("2025-06-10")
	assert.Equal(t, Tuesday, d.Weekday())
	assert.Equal(t, "2025-06-15", d.AddDays(5).String())
	assert.True(t, d.Before(date("2025-06-11")))
	assert.True(t, d.Equal(DateOf(time.Date(2025, 6, 10, 23, 59, 0, 0, time.Local))))

	_, err := ParseDate("10/06/2025")
	assert.Error(t, err)

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-10", scanned.String())
}

func TestWeekdayOf(t *testing.T) {
	// 2025-06-09 is a Monday.
	base := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	for i, want := range Weekdays {
		assert.Equal(t, want, WeekdayOf(base.AddDate(0, 0, i)))
	}
	assert.Equal(t, "sunday", Sunday.String())
}
