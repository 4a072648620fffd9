// Package selection holds the state of one date/time selector.
//
// The Gregorian instant is canonical. The Ethiopian date is computed from
// it on every read, so the two can never disagree. Edits made in either
// calendar are converted to the instant before they are committed, and
// every committed edit is reported through Options.OnChange.
package selection

import (
	"errors"
	"fmt"
	"time"

	"ethiopicker/internal/ethiopic"
	appLog "ethiopicker/internal/log"
	"ethiopicker/internal/model"
)

const (
	// DefaultYearRange is the number of years offered by the year selector.
	DefaultYearRange = 100

	// MaxYearRange caps YearRange.
	MaxYearRange = 1000
)

var (
	// ErrInvalidDate is returned for edits naming a day that does not
	// exist in the active calendar.
	ErrInvalidDate = ethiopic.ErrInvalidDate

	// ErrInvalidTime is returned for out of range time edits.
	ErrInvalidTime = model.ErrInvalidTime

	// ErrModeDisabled is returned when switching to the Ethiopian calendar
	// on a selector that was created without it.
	ErrModeDisabled = errors.New("ethiopian calendar is not enabled")
)

// Options configure a Controller. The zero value is usable.
type Options struct {
	// Initial seeds the selection. When nil the current time is used.
	Initial *model.Instant

	// EnableEthiopian offers the Ethiopian calendar and makes it the
	// initial mode.
	EnableEthiopian bool

	// ShowTimePicker enables the time of day control.
	ShowTimePicker bool

	// YearRange is the number of years offered by the year selector,
	// counting back from the current year. Defaults to DefaultYearRange and
	// is capped at MaxYearRange.
	YearRange int

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time

	// OnChange receives the Gregorian instant after every committed date
	// or time edit.
	OnChange func(model.Instant)
}

// PartialDate is a year, month and day in the active calendar. Zero fields
// keep the current value.
type PartialDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Controller merges edits from the selector's controls into one instant.
// It is not safe for concurrent use.
type Controller struct {
	opts    Options
	instant model.Instant
	mode    model.CalendarMode
}

// New creates a controller and reports the seeded instant to OnChange so
// the host never observes an empty value.
func New(opts Options) (*Controller, error) {
	if opts.YearRange <= 0 {
		opts.YearRange = DefaultYearRange
	}
	opts.YearRange = min(opts.YearRange, MaxYearRange)
	if opts.Now == nil {
		opts.Now = time.Now
	}

	instant := model.FromTime(opts.Now())
	if opts.Initial != nil {
		instant = *opts.Initial
	}
	if err := validInstant(instant); err != nil {
		return nil, fmt.Errorf("initial instant %v: %w", instant, err)
	}

	mode := model.Gregorian
	if opts.EnableEthiopian {
		mode = model.Ethiopian
	}

	c := &Controller{opts: opts, instant: instant, mode: mode}
	c.emit()
	return c, nil
}

// Options returns the options in effect, with defaults applied.
func (c *Controller) Options() Options {
	return c.opts
}

// Instant returns the selected Gregorian instant.
func (c *Controller) Instant() model.Instant {
	return c.instant
}

// Ethiopian returns the Ethiopian projection of the selected date.
func (c *Controller) Ethiopian() ethiopic.Date {
	// validInstant guarantees the projection exists.
	d, _ := ethiopic.FromGregorian(c.instant.Year, c.instant.Month, c.instant.Day)
	return d
}

// Mode returns the active calendar.
func (c *Controller) Mode() model.CalendarMode {
	return c.mode
}

// TimeOfDay returns the time portion of the selection.
func (c *Controller) TimeOfDay() model.TimeOfDay {
	return c.instant.TimeOfDay()
}

// ActiveDate returns the selected date in the active calendar.
func (c *Controller) ActiveDate() PartialDate {
	if c.mode == model.Ethiopian {
		e := c.Ethiopian()
		return PartialDate{Year: e.Year, Month: e.Month, Day: e.Day}
	}
	return PartialDate{Year: c.instant.Year, Month: int(c.instant.Month), Day: c.instant.Day}
}

// SetDate replaces the date in the active calendar, keeping the time of
// day. Invalid dates are rejected and leave the selection unchanged.
func (c *Controller) SetDate(p PartialDate) error {
	d := c.ActiveDate()
	if p.Year != 0 {
		d.Year = p.Year
	}
	if p.Month != 0 {
		d.Month = p.Month
	}
	if p.Day != 0 {
		d.Day = p.Day
	}
	return c.apply("date", d)
}

// SelectDay sets the Gregorian date directly, as a click on a calendar
// grid cell does regardless of the active calendar.
func (c *Controller) SelectDay(year int, month time.Month, day int) error {
	next := c.instant.WithDate(year, month, day)
	if err := validInstant(next); err != nil {
		return c.reject("day", err)
	}
	c.commit(next)
	return nil
}

// SetInstant replaces both date and time, e.g. from an imported event.
func (c *Controller) SetInstant(i model.Instant) error {
	if err := validInstant(i); err != nil {
		return c.reject("instant", err)
	}
	c.commit(i)
	return nil
}

// SetYear changes the year in the active calendar. The day is clamped to
// the length of the month in the new year.
func (c *Controller) SetYear(y int) error {
	d := c.ActiveDate()
	d.Year = y
	d.Day = min(d.Day, c.daysInMonth(d.Year, d.Month))
	return c.apply("year", d)
}

// SetMonth changes the month in the active calendar. Months are 1-based;
// 13 is Pagume. The day is clamped to the length of the new month.
func (c *Controller) SetMonth(m int) error {
	if m < 1 || m > c.monthsPerYear() {
		return c.reject("month", fmt.Errorf("%w: month %d out of range 1-%d", ErrInvalidDate, m, c.monthsPerYear()))
	}
	d := c.ActiveDate()
	d.Month = m
	d.Day = min(d.Day, c.daysInMonth(d.Year, d.Month))
	return c.apply("month", d)
}

// SetTime replaces the time of day, keeping the date. The second is
// optional and defaults to zero.
func (c *Controller) SetTime(hour, minute int, second ...int) error {
	t := model.TimeOfDay{Hour: hour, Minute: minute}
	if len(second) > 0 {
		t.Second = second[0]
	}
	if err := t.Validate(); err != nil {
		return c.reject("time", err)
	}
	c.commit(c.instant.WithTime(t))
	return nil
}

// SetCalendarMode switches the displayed calendar. The instant is not
// changed and OnChange is not called.
func (c *Controller) SetCalendarMode(m model.CalendarMode) error {
	switch m {
	case model.Gregorian:
	case model.Ethiopian:
		if !c.opts.EnableEthiopian {
			return ErrModeDisabled
		}
	default:
		return fmt.Errorf("unknown calendar mode %q", m)
	}
	c.mode = m
	return nil
}

func (c *Controller) apply(field string, d PartialDate) error {
	next, err := c.resolve(d)
	if err != nil {
		return c.reject(field, err)
	}
	c.commit(next)
	return nil
}

// resolve converts a date in the active calendar to an instant carrying
// the current time of day.
func (c *Controller) resolve(d PartialDate) (model.Instant, error) {
	if c.mode == model.Ethiopian {
		y, m, day, err := ethiopic.ToGregorian(ethiopic.Date{Year: d.Year, Month: d.Month, Day: d.Day})
		if err != nil {
			return model.Instant{}, err
		}
		return c.instant.WithDate(y, m, day), nil
	}
	next := c.instant.WithDate(d.Year, time.Month(d.Month), d.Day)
	if err := validInstant(next); err != nil {
		return model.Instant{}, err
	}
	return next, nil
}

func (c *Controller) reject(field string, err error) error {
	appLog.Debug("selection edit rejected", "field", field, "mode", c.mode, "err", err)
	return err
}

func (c *Controller) commit(next model.Instant) {
	c.instant = next
	c.emit()
}

func (c *Controller) emit() {
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.instant)
	}
}

func (c *Controller) monthsPerYear() int {
	if c.mode == model.Ethiopian {
		return ethiopic.MonthsPerYear
	}
	return 12
}

func (c *Controller) daysInMonth(y, m int) int {
	if c.mode == model.Ethiopian {
		return ethiopic.DaysInMonth(y, m)
	}
	return ethiopic.GregorianDaysInMonth(y, time.Month(m))
}

// validInstant also requires the date to have an Ethiopian projection.
func validInstant(i model.Instant) error {
	if err := i.Validate(); err != nil {
		return err
	}
	_, err := ethiopic.FromGregorian(i.Year, i.Month, i.Day)
	return err
}
