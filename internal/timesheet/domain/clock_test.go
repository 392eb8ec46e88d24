package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.ClockTime
		wantErr bool
	}{
		{"08:00", domain.ClockTime(8 * 3600), false},
		{"08:00:00", domain.ClockTime(8 * 3600), false},
		{"23:59:59", domain.ClockTime(23*3600 + 59*60 + 59), false},
		{"00:00", domain.ClockTime(0), false},
		{"09:30:15", domain.ClockTime(9*3600 + 30*60 + 15), false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12:00:61", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseClockTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTime_Format(t *testing.T) {
	c := domain.MustClockTime("09:05:30")

	assert.Equal(t, "09:05:30", c.String())
	assert.Equal(t, "09:05", c.Short())
}

func TestClockTime_HoursSince(t *testing.T) {
	start := domain.MustClockTime("08:00")
	end := domain.MustClockTime("16:30")

	assert.InDelta(t, 8.5, end.HoursSince(start), 1e-9)
	assert.InDelta(t, -8.5, start.HoursSince(end), 1e-9)
}

func TestClockTime_At(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	c := domain.MustClockTime("14:15")

	got := c.At(date)

	assert.Equal(t, time.Date(2026, 3, 2, 14, 15, 0, 0, time.UTC), got)
}

func TestClockTime_JSONRoundTrip(t *testing.T) {
	c := domain.MustClockTime("07:45")

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"07:45:00"`, string(data))

	var back domain.ClockTime
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestClockTime_UnmarshalEmptyString(t *testing.T) {
	var c domain.ClockTime
	require.NoError(t, json.Unmarshal([]byte(`""`), &c))
	assert.True(t, c.IsZero())
}

func TestClockTime_Scan(t *testing.T) {
	var c domain.ClockTime

	require.NoError(t, c.Scan(time.Date(2000, 1, 1, 13, 30, 0, 0, time.UTC)))
	assert.Equal(t, domain.MustClockTime("13:30"), c)

	require.NoError(t, c.Scan([]byte("06:15:00")))
	assert.Equal(t, domain.MustClockTime("06:15"), c)

	require.NoError(t, c.Scan(nil))
	assert.True(t, c.IsZero())

	assert.Error(t, c.Scan(42))
}
