package ethiopic

import (
	"fmt"
	"time"
)

// Supported Gregorian years, the range time.Time formats with four digits.
const (
	MinGregorianYear = 1
	MaxGregorianYear = 9999
)

// GregorianIsLeap reports whether y is a leap year in the proleptic
// Gregorian calendar.
func GregorianIsLeap(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// GregorianDaysInMonth returns the number of days in month m of year y.
func GregorianDaysInMonth(y int, m time.Month) int {
	switch m {
	case time.February:
		if GregorianIsLeap(y) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	}
	return 0
}

// ValidateGregorian returns an error wrapping ErrInvalidDate when the
// year, month and day do not name a Gregorian day.
func ValidateGregorian(y int, m time.Month, d int) error {
	if y < MinGregorianYear || y > MaxGregorianYear {
		return fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidDate, y, MinGregorianYear, MaxGregorianYear)
	}
	if m < time.January || m > time.December {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidDate, m)
	}
	if n := GregorianDaysInMonth(y, m); d < 1 || d > n {
		return fmt.Errorf("%w: day %d out of range 1-%d for %s %d", ErrInvalidDate, d, n, m, y)
	}
	return nil
}

func gregorianToJDN(y, m, d int) int {
	a := div(14-m, 12)
	yy := y + 4800 - a
	mm := m + 12*a - 3
	return d + div(153*mm+2, 5) + 365*yy + div(yy, 4) - div(yy, 100) + div(yy, 400) - 32045
}

func jdnToGregorian(jdn int) (int, int, int) {
	a := jdn + 32044
	b := div(4*a+3, 146097)
	c := a - div(146097*b, 4)
	d := div(4*c+3, 1461)
	e := c - div(1461*d, 4)
	m := div(5*e+2, 153)
	day := e - div(153*m+2, 5) + 1
	month := m + 3 - 12*div(m, 10)
	year := 100*b + d - 4800 + div(m, 10)
	return year, month, day
}

