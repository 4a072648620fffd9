package selection

import (
	"fmt"
	"time"

	"ethiopicker/internal/ethiopic"
	"ethiopicker/internal/model"
)

// MonthOption is one entry of the month selector.
type MonthOption struct {
	Value    int    `json:"value"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Cell is one day of the calendar grid.
type Cell struct {
	// Label is the day number in the active calendar.
	Label string `json:"label"`

	// Year, Month and Day are the Gregorian date of the cell.
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`

	// InMonth is false for the leading and trailing days of adjacent months.
	InMonth  bool `json:"in_month"`
	Selected bool `json:"selected"`
	Today    bool `json:"today"`
}

// Grid is the calendar page for the selected month in the active calendar.
// Weeks start on Sunday.
type Grid struct {
	Caption  string   `json:"caption"`
	Weekdays []string `json:"weekdays"`
	Weeks    [][]Cell `json:"weeks"`
}

var weekdayHeaders = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// YearOptions lists the years offered by the year selector, most recent
// first, counting back YearRange years from the current year in the
// active calendar. The selected year is always listed, in order, even when
// it falls outside that window.
func (c *Controller) YearOptions() []int {
	now := c.opts.Now()
	current := now.Year()
	if c.mode == model.Ethiopian {
		current = ethiopic.ToEthiopian(now).Year
	}
	selected := c.ActiveDate().Year
	oldest := current - c.opts.YearRange + 1

	years := make([]int, 0, c.opts.YearRange+1)
	if selected > current {
		years = append(years, selected)
	}
	for y := current; y >= oldest; y-- {
		years = append(years, y)
	}
	if selected < oldest {
		years = append(years, selected)
	}
	return years
}

// MonthOptions lists the months of the active calendar.
func (c *Controller) MonthOptions() []MonthOption {
	sel := c.ActiveDate().Month
	n := c.monthsPerYear()
	out := make([]MonthOption, 0, n)
	for m := 1; m <= n; m++ {
		out = append(out, MonthOption{Value: m, Name: c.monthName(m), Selected: m == sel})
	}
	return out
}

// Caption names the displayed month, e.g. "September 2024" or
// "Meskerem 2017".
func (c *Controller) Caption() string {
	d := c.ActiveDate()
	return fmt.Sprintf("%s %d", c.monthName(d.Month), d.Year)
}

// Label formats the selected date in the active calendar, e.g.
// "September 11, 2024" or "1 Meskerem 2017 (Ethiopian)".
func (c *Controller) Label() string {
	if c.mode == model.Ethiopian {
		return c.Ethiopian().String() + " (Ethiopian)"
	}
	return c.instant.Time(time.UTC).Format("January 2, 2006")
}

// Summary is the label followed by the time of day when the time control
// is shown.
func (c *Controller) Summary() string {
	if !c.opts.ShowTimePicker {
		return c.Label()
	}
	return c.Label() + " " + c.TimeOfDay().String()
}

// Grid lays out the month containing the selection.
func (c *Controller) Grid() Grid {
	active := c.ActiveDate()
	first, last := c.monthBounds(active)

	today := model.FromTime(c.opts.Now())
	start := first.AddDate(0, 0, -int(first.Weekday()))

	g := Grid{Caption: c.Caption(), Weekdays: weekdayHeaders}
	for day := start; !day.After(last) || day.Weekday() != time.Sunday; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Sunday {
			g.Weeks = append(g.Weeks, make([]Cell, 0, 7))
		}
		y, m, d := day.Date()
		label, month := d, int(m)
		if c.mode == model.Ethiopian {
			e := ethiopic.ToEthiopian(day)
			label, month = e.Day, e.Month
		}
		w := len(g.Weeks) - 1
		g.Weeks[w] = append(g.Weeks[w], Cell{
			Label:    fmt.Sprint(label),
			Year:     y,
			Month:    m,
			Day:      d,
			InMonth:  month == active.Month,
			Selected: y == c.instant.Year && m == c.instant.Month && d == c.instant.Day,
			Today:    y == today.Year && m == today.Month && d == today.Day,
		})
	}
	return g
}

// monthBounds returns the first and last Gregorian days of the active
// month, at midnight UTC.
func (c *Controller) monthBounds(d PartialDate) (time.Time, time.Time) {
	if c.mode == model.Ethiopian {
		e := ethiopic.Date{Year: d.Year, Month: d.Month, Day: 1}
		first, _ := e.Time(time.UTC)
		return first, first.AddDate(0, 0, ethiopic.DaysInMonth(d.Year, d.Month)-1)
	}
	first := time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func (c *Controller) monthName(m int) string {
	if c.mode == model.Ethiopian {
		return ethiopic.MonthName(m)
	}
	return time.Month(m).String()
}
