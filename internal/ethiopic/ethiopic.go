// Package ethiopic converts dates between the Gregorian and the Ethiopian
// (Amete Mihret) calendars.
//
// The Ethiopian year has twelve months of 30 days followed by Pagume, a
// short thirteenth month of 5 days, or 6 days in a leap year. Every fourth
// year is a leap year with no century exception, so the calendar drifts
// against the Gregorian one over centuries; conversions go through a day
// number rather than a fixed year/month offset.
package ethiopic

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned for dates whose month or day is out of range.
var ErrInvalidDate = errors.New("invalid date")

const (
	// Pagume is the intercalary thirteenth month.
	Pagume = 13

	// MonthsPerYear is the number of months including Pagume.
	MonthsPerYear = 13

	// MinYear and MaxYear bound the supported Ethiopian years. 1 Meskerem 1
	// is 27 August 8 and the last day of 9991 is 10 November 9999, so every
	// supported date converts to a four digit Gregorian year.
	MinYear = 1
	MaxYear = 9991

	// epochOffset is the Julian Day Number of 1 Meskerem 1 minus 365.
	epochOffset = 1723856
)

// MonthNames lists the Ethiopian month names, Meskerem first.
var MonthNames = [MonthsPerYear]string{
	"Meskerem",
	"Tikimt",
	"Hidar",
	"Tahsas",
	"Tir",
	"Yekatit",
	"Megabit",
	"Miazia",
	"Ginbot",
	"Sene",
	"Hamle",
	"Nehase",
	"Pagume",
}

// Date is a day in the Ethiopian calendar. Month is 1-based, 13 is Pagume.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%d %s %d", d.Day, MonthName(d.Month), d.Year)
}

// MonthName returns the name of month m, or "" when m is out of range.
func MonthName(m int) string {
	if m < 1 || m > MonthsPerYear {
		return ""
	}
	return MonthNames[m-1]
}

// ParseMonth accepts a month name (any case, any unambiguous prefix of at
// least three letters) and returns its 1-based number.
func ParseMonth(name string) (int, error) {
	lc := strings.ToLower(strings.TrimSpace(name))
	if len(lc) < 3 {
		return 0, fmt.Errorf("invalid month: %q", name)
	}
	for i, m := range MonthNames {
		if strings.HasPrefix(strings.ToLower(m), lc) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("invalid month: %q", name)
}

// IsLeapYear reports whether Pagume has 6 days in Ethiopian year y. This is
// the year ending just before a Julian leap year begins, which keeps the
// Ethiopian new year on Meskerem 1 = September 11 (September 12 ahead of a
// Gregorian leap year) from 1900 until February 2100.
func IsLeapYear(y int) bool {
	return mod(y, 4) == 3
}

// DaysInMonth returns the number of days in month m of year y, or 0 for an
// invalid month.
func DaysInMonth(y, m int) int {
	switch {
	case m >= 1 && m < Pagume:
		return 30
	case m == Pagume && IsLeapYear(y):
		return 6
	case m == Pagume:
		return 5
	}
	return 0
}

// DaysInYear returns 365 or 366.
func DaysInYear(y int) int {
	if IsLeapYear(y) {
		return 366
	}
	return 365
}

// Validate returns an error wrapping ErrInvalidDate when d is not a day of
// the Ethiopian calendar.
func Validate(d Date) error {
	if d.Year < MinYear || d.Year > MaxYear {
		return fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidDate, d.Year, MinYear, MaxYear)
	}
	if d.Month < 1 || d.Month > MonthsPerYear {
		return fmt.Errorf("%w: month %d out of range 1-%d", ErrInvalidDate, d.Month, MonthsPerYear)
	}
	if n := DaysInMonth(d.Year, d.Month); d.Day < 1 || d.Day > n {
		return fmt.Errorf("%w: day %d out of range 1-%d for %s %d", ErrInvalidDate, d.Day, n, MonthName(d.Month), d.Year)
	}
	return nil
}

// FromGregorian converts a Gregorian year, month and day. Days whose
// Ethiopian year falls outside MinYear-MaxYear are rejected.
func FromGregorian(year int, month time.Month, day int) (Date, error) {
	if err := ValidateGregorian(year, month, day); err != nil {
		return Date{}, err
	}
	d := fromJDN(gregorianToJDN(year, int(month), day))
	if d.Year < MinYear || d.Year > MaxYear {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d is outside Ethiopian years %d-%d", ErrInvalidDate, year, month, day, MinYear, MaxYear)
	}
	return d, nil
}

// ToEthiopian returns the Ethiopian date of t's calendar day in t's
// location. Time of day is ignored. Unlike FromGregorian it does not check
// the supported range: days before the epoch come back with a year below 1.
// It is meant for labelling days already known to be in range, such as the
// cells of a calendar grid.
func ToEthiopian(t time.Time) Date {
	y, m, d := t.Date()
	return fromJDN(gregorianToJDN(y, int(m), d))
}

// ToGregorian converts d to a Gregorian year, month and day.
func ToGregorian(d Date) (int, time.Month, int, error) {
	if err := Validate(d); err != nil {
		return 0, 0, 0, err
	}
	y, m, day := jdnToGregorian(toJDN(d))
	return y, time.Month(m), day, nil
}

// Time returns midnight of d in loc. d must be valid.
func (d Date) Time(loc *time.Location) (time.Time, error) {
	y, m, day, err := ToGregorian(d)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, day, 0, 0, 0, 0, loc), nil
}

// Weekday returns the day of the week d falls on.
func Weekday(d Date) time.Weekday {
	return time.Weekday(mod(toJDN(d)+1, 7))
}

func toJDN(d Date) int {
	return epochOffset + 365 + 365*(d.Year-1) + div(d.Year, 4) + 30*d.Month + d.Day - 31
}

func fromJDN(jdn int) Date {
	days := jdn - epochOffset
	r := mod(days, 1461)
	n := mod(r, 365) + 365*div(r, 1460)
	return Date{
		Year:  4*div(days, 1461) + div(r, 365) - div(r, 1460),
		Month: div(n, 30) + 1,
		Day:   mod(n, 30) + 1,
	}
}

// div and mod floor towards negative infinity.
func div(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	return a - b*div(a, b)
}
