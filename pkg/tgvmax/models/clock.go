package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the dataset's calendar date format.
const DateLayout = "2006-01-02"

// ClockTime is a local time of day with minute precision, stored as minutes
// since midnight.
type ClockTime int

// NewClockTime builds a ClockTime from an hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM". A trailing ":SS" is tolerated and ignored.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("unable to parse time of day %q", s)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalText renders the time as "HH:MM" so it reads naturally in JSON.
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseDate parses a "YYYY-MM-DD" civil date. The result is midnight UTC so
// dates compare and hash consistently.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
	}
	return d, nil
}

// Civil truncates t to its calendar date at midnight UTC, keeping the wall
// clock date of t's own location.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
