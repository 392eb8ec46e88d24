package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime is a time of day with second resolution, independent of any
// calendar date or location. It is stored as seconds since midnight.
//
// The zero value (midnight) doubles as the "not set" sentinel for optional
// second shifts: a second shift of 00:00:00-00:00:00 means "no second
// shift", which is distinct from any shift that merely starts at midnight.
type ClockTime int

// ParseClockTime parses a time of day in "HH:MM" or "HH:MM:SS" form.
func ParseClockTime(s string) (ClockTime, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return ClockTime(h*3600 + m*60 + sec), nil
}

// MustClockTime parses a time of day and panics on error. For tests and
// constants only.
func MustClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsZero reports whether the time is the 00:00:00 sentinel.
func (c ClockTime) IsZero() bool {
	return c == 0
}

// String returns the time in "HH:MM:SS" form.
func (c ClockTime) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// Short returns the time in "HH:MM" form, as shown in reports.
func (c ClockTime) Short() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d", s/3600, (s/60)%60)
}

// HoursSince returns the duration from start to c in fractional hours.
// The result is negative when c is before start.
func (c ClockTime) HoursSince(start ClockTime) float64 {
	return float64(c-start) / 3600.0
}

// At anchors the time of day onto the given calendar date.
func (c ClockTime) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(c) * time.Second)
}

// MarshalJSON implements json.Marshaler.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = 0
		return nil
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan implements sql.Scanner for PostgreSQL TIME columns.
func (c *ClockTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = 0
		return nil
	case time.Time:
		*c = ClockTime(v.Hour()*3600 + v.Minute()*60 + v.Second())
		return nil
	case []byte:
		parsed, err := ParseClockTime(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case string:
		parsed, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", value)
	}
}

// Value implements driver.Valuer.
func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}
