package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ethiopicker/internal/ethiopic"
)

// ErrInvalidTime is returned for hour, minute or second values out of range.
var ErrInvalidTime = errors.New("invalid time of day")

// Instant is a Gregorian calendar date and wall clock time with no zone.
// It is the single source of truth for a selection; the Ethiopian date is
// always derived from it.
type Instant struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	Hour   int        `json:"hour"`
	Minute int        `json:"minute"`
	Second int        `json:"second"`
}

const instantLayout = "2006-01-02T15:04:05"

// FromTime takes the wall clock fields of t in its own location.
func FromTime(t time.Time) Instant {
	y, m, d := t.Date()
	return Instant{
		Year:   y,
		Month:  m,
		Day:    d,
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// ParseInstant parses "2006-01-02T15:04:05", "2006-01-02T15:04" or
// "2006-01-02".
func ParseInstant(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{instantLayout, "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Instant{}, fmt.Errorf("%w: cannot parse %q", ethiopic.ErrInvalidDate, s)
}

// Time returns the instant as a time.Time in loc.
func (i Instant) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second, 0, loc)
}

// TimeOfDay returns the time portion of the instant.
func (i Instant) TimeOfDay() TimeOfDay {
	return TimeOfDay{Hour: i.Hour, Minute: i.Minute, Second: i.Second}
}

// WithDate returns a copy of i with its date replaced.
func (i Instant) WithDate(y int, m time.Month, d int) Instant {
	i.Year, i.Month, i.Day = y, m, d
	return i
}

// WithTime returns a copy of i with its time of day replaced.
func (i Instant) WithTime(t TimeOfDay) Instant {
	i.Hour, i.Minute, i.Second = t.Hour, t.Minute, t.Second
	return i
}

// Validate checks that the date exists in the Gregorian calendar and the
// time of day is in range.
func (i Instant) Validate() error {
	if err := ethiopic.ValidateGregorian(i.Year, i.Month, i.Day); err != nil {
		return err
	}
	return i.TimeOfDay().Validate()
}

// IsZero reports whether no field has been set.
func (i Instant) IsZero() bool {
	return i == Instant{}
}

func (i Instant) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", i.Year, int(i.Month), i.Day, i.Hour, i.Minute, i.Second)
}

// TimeOfDay is the hour, minute and second used by the time control.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// ParseTimeOfDay parses "15:04" or "15:04:05" as produced by an HTML time
// input.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q, expected HH:MM or HH:MM:SS", ErrInvalidTime, s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) == 0 || len(p) > 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q, expected HH:MM or HH:MM:SS", ErrInvalidTime, s)
		}
		vals[i] = n
	}
	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

// Validate checks each field against its range.
func (t TimeOfDay) Validate() error {
	switch {
	case t.Hour < 0 || t.Hour > 23:
		return fmt.Errorf("%w: hour %d", ErrInvalidTime, t.Hour)
	case t.Minute < 0 || t.Minute > 59:
		return fmt.Errorf("%w: minute %d", ErrInvalidTime, t.Minute)
	case t.Second < 0 || t.Second > 59:
		return fmt.Errorf("%w: second %d", ErrInvalidTime, t.Second)
	}
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// CalendarMode selects which calendar is displayed and edited.
type CalendarMode string

const (
	Gregorian CalendarMode = "gregorian"
	Ethiopian CalendarMode = "ethiopian"
)

// ParseCalendarMode accepts "gregorian" or "ethiopian" in any case.
func ParseCalendarMode(s string) (CalendarMode, error) {
	switch m := CalendarMode(strings.ToLower(strings.TrimSpace(s))); m {
	case Gregorian, Ethiopian:
		return m, nil
	}
	return "", fmt.Errorf("unknown calendar mode %q", s)
}

func (m CalendarMode) String() string {
	return string(m)
}
