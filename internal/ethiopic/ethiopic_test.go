package ethiopic_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethiopicker/internal/ethiopic"
)

func TestFromGregorianKnownDates(t *testing.T) {
	tests := []struct {
		name     string
		greg     time.Time
		expected ethiopic.Date
	}{
		{"new year 2017", date(2024, 9, 11), ethiopic.Date{Year: 2017, Month: 1, Day: 1}},
		{"new year 2016 before leap", date(2023, 9, 12), ethiopic.Date{Year: 2016, Month: 1, Day: 1}},
		{"pagume 6 of leap year", date(2023, 9, 11), ethiopic.Date{Year: 2015, Month: 13, Day: 6}},
		{"pagume 5 of common year", date(2024, 9, 10), ethiopic.Date{Year: 2016, Month: 13, Day: 5}},
		{"genna", date(2025, 1, 7), ethiopic.Date{Year: 2017, Month: 4, Day: 29}},
		{"timket", date(2024, 1, 20), ethiopic.Date{Year: 2016, Month: 5, Day: 11}},
		{"millennium", date(2007, 9, 12), ethiopic.Date{Year: 2000, Month: 1, Day: 1}},
		{"unix epoch", date(1970, 1, 1), ethiopic.Date{Year: 1962, Month: 4, Day: 23}},
		{"leap day", date(2024, 2, 29), ethiopic.Date{Year: 2016, Month: 6, Day: 21}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ethiopic.FromGregorian(tt.greg.Year(), tt.greg.Month(), tt.greg.Day())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected, ethiopic.ToEthiopian(tt.greg))

			y, m, d, err := ethiopic.ToGregorian(tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.greg, date(y, int(m), d))
		})
	}
}

func TestRoundTripGregorian(t *testing.T) {
	start := date(1900, 1, 1)
	end := date(2200, 12, 31)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		e, err := ethiopic.FromGregorian(d.Year(), d.Month(), d.Day())
		require.NoError(t, err)
		require.NoError(t, ethiopic.Validate(e), "projection of %v", d)
		y, m, day, err := ethiopic.ToGregorian(e)
		require.NoError(t, err)
		if !assert.Equal(t, d, date(y, int(m), day), "round trip of %v via %v", d, e) {
			return
		}
	}
}

func TestRoundTripEthiopian(t *testing.T) {
	for y := 1890; y <= 2200; y++ {
		for m := 1; m <= ethiopic.MonthsPerYear; m++ {
			for d := 1; d <= ethiopic.DaysInMonth(y, m); d++ {
				e := ethiopic.Date{Year: y, Month: m, Day: d}
				gy, gm, gd, err := ethiopic.ToGregorian(e)
				require.NoError(t, err)
				back, err := ethiopic.FromGregorian(gy, gm, gd)
				require.NoError(t, err)
				if !assert.Equal(t, e, back) {
					return
				}
			}
		}
	}
}

func TestConsecutiveDays(t *testing.T) {
	prev := ethiopic.ToEthiopian(date(2019, 1, 1))
	for d := date(2019, 1, 2); d.Year() < 2030; d = d.AddDate(0, 0, 1) {
		cur := ethiopic.ToEthiopian(d)
		next := ethiopic.Date{Year: prev.Year, Month: prev.Month, Day: prev.Day + 1}
		if next.Day > ethiopic.DaysInMonth(prev.Year, prev.Month) {
			next.Month, next.Day = next.Month+1, 1
		}
		if next.Month > ethiopic.MonthsPerYear {
			next.Year, next.Month = next.Year+1, 1
		}
		require.Equal(t, next, cur, "day after %v", prev)
		prev = cur
	}
}

func TestNewYearFallsOnSeptember11Or12(t *testing.T) {
	for gy := 1901; gy <= 2098; gy++ {
		want := 11
		if ethiopic.GregorianIsLeap(gy + 1) {
			want = 12
		}
		y, m, d, err := ethiopic.ToGregorian(ethiopic.Date{Year: gy - 7, Month: 1, Day: 1})
		require.NoError(t, err)
		assert.Equal(t, gy, y)
		assert.Equal(t, time.September, m)
		assert.Equal(t, want, d, "new year %d", gy-7)
	}
}

func TestLeapYears(t *testing.T) {
	tests := []struct {
		year   int
		leap   bool
		pagume int
	}{
		{2011, true, 6},
		{2012, false, 5},
		{2015, true, 6},
		{2016, false, 5},
		{2017, false, 5},
		{2019, true, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.leap, ethiopic.IsLeapYear(tt.year), "year %d", tt.year)
		assert.Equal(t, tt.pagume, ethiopic.DaysInMonth(tt.year, ethiopic.Pagume), "year %d", tt.year)
		assert.Equal(t, 360+tt.pagume, ethiopic.DaysInYear(tt.year))
	}
}

func TestValidate(t *testing.T) {
	valid := []ethiopic.Date{
		{Year: 2015, Month: 13, Day: 6},
		{Year: 2016, Month: 13, Day: 5},
		{Year: 2017, Month: 12, Day: 30},
		{Year: 1, Month: 1, Day: 1},
	}
	for _, d := range valid {
		assert.NoError(t, ethiopic.Validate(d), "%+v", d)
	}

	invalid := []ethiopic.Date{
		{Year: 2016, Month: 13, Day: 6},
		{Year: 2015, Month: 13, Day: 7},
		{Year: 2017, Month: 1, Day: 31},
		{Year: 2017, Month: 1, Day: 0},
		{Year: 2017, Month: 0, Day: 1},
		{Year: 2017, Month: 14, Day: 1},
		{Year: 0, Month: 1, Day: 1},
	}
	for _, d := range invalid {
		err := ethiopic.Validate(d)
		assert.ErrorIs(t, err, ethiopic.ErrInvalidDate, "%+v", d)
		_, _, _, err = ethiopic.ToGregorian(d)
		assert.ErrorIs(t, err, ethiopic.ErrInvalidDate, "%+v", d)
	}
}

func TestFromGregorianRejectsInvalid(t *testing.T) {
	_, err := ethiopic.FromGregorian(2023, time.February, 29)
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
	_, err = ethiopic.FromGregorian(2024, 13, 1)
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
	_, err = ethiopic.FromGregorian(2024, time.April, 31)
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
	_, err = ethiopic.FromGregorian(5, time.January, 1)
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
}

func TestSupportedRange(t *testing.T) {
	first, err := ethiopic.FromGregorian(8, time.August, 27)
	require.NoError(t, err)
	assert.Equal(t, ethiopic.Date{Year: 1, Month: 1, Day: 1}, first)

	last, err := ethiopic.FromGregorian(9999, time.November, 10)
	require.NoError(t, err)
	assert.Equal(t, ethiopic.Date{Year: ethiopic.MaxYear, Month: ethiopic.Pagume, Day: 6}, last)

	y, m, d, err := ethiopic.ToGregorian(last)
	require.NoError(t, err)
	assert.Equal(t, []int{9999, 11, 10}, []int{y, int(m), d})

	outside := []struct {
		year  int
		month time.Month
		day   int
	}{
		{8, time.August, 26},
		{9999, time.November, 11},
		{9999, time.December, 31},
		{10000, time.January, 1},
		{0, time.January, 1},
		{-1, time.January, 1},
		{300000000000, time.September, 11},
		{math.MaxInt, time.September, 11},
		{math.MinInt, time.September, 11},
	}
	for _, tc := range outside {
		_, err := ethiopic.FromGregorian(tc.year, tc.month, tc.day)
		assert.ErrorIs(t, err, ethiopic.ErrInvalidDate, "%d-%d-%d", tc.year, tc.month, tc.day)
	}

	for _, year := range []int{ethiopic.MaxYear + 1, 300000000000, math.MaxInt, math.MinInt} {
		d := ethiopic.Date{Year: year, Month: 1, Day: 1}
		assert.ErrorIs(t, ethiopic.Validate(d), ethiopic.ErrInvalidDate, "%d", year)
		_, _, _, err := ethiopic.ToGregorian(d)
		assert.ErrorIs(t, err, ethiopic.ErrInvalidDate, "%d", year)
	}

	assert.ErrorIs(t, ethiopic.ValidateGregorian(10000, time.January, 1), ethiopic.ErrInvalidDate)
	assert.NoError(t, ethiopic.ValidateGregorian(9999, time.December, 31))
}

func TestToEthiopianBeforeEpoch(t *testing.T) {
	d := ethiopic.ToEthiopian(date(8, 8, 26))
	assert.Equal(t, ethiopic.Date{Year: 0, Month: ethiopic.Pagume, Day: 5}, d)
	assert.ErrorIs(t, ethiopic.Validate(d), ethiopic.ErrInvalidDate)

	_, err := ethiopic.FromGregorian(8, time.August, 26)
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
}

func TestWeekday(t *testing.T) {
	for d := date(2024, 9, 1); d.Before(date(2024, 10, 1)); d = d.AddDate(0, 0, 1) {
		assert.Equal(t, d.Weekday(), ethiopic.Weekday(ethiopic.ToEthiopian(d)), "%v", d)
	}
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "Meskerem", ethiopic.MonthName(1))
	assert.Equal(t, "Pagume", ethiopic.MonthName(ethiopic.Pagume))
	assert.Equal(t, "", ethiopic.MonthName(0))
	assert.Equal(t, "", ethiopic.MonthName(14))
	assert.Equal(t, "1 Meskerem 2017", ethiopic.Date{Year: 2017, Month: 1, Day: 1}.String())

	for _, tc := range []struct {
		in   string
		want int
	}{
		{"Meskerem", 1},
		{"mes", 1},
		{"MEGABIT", 7},
		{"pag", 13},
		{" Tir ", 5},
	} {
		got, err := ethiopic.ParseMonth(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	for _, in := range []string{"", "me", "January", "xyz"} {
		_, err := ethiopic.ParseMonth(in)
		assert.Error(t, err, in)
	}
}

func TestDateTime(t *testing.T) {
	got, err := ethiopic.Date{Year: 2017, Month: 1, Day: 1}.Time(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 9, 11), got)

	_, err = ethiopic.Date{Year: 2017, Month: 13, Day: 6}.Time(time.UTC)
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
}

func TestGregorianDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, ethiopic.GregorianDaysInMonth(2024, time.February))
	assert.Equal(t, 28, ethiopic.GregorianDaysInMonth(2100, time.February))
	assert.Equal(t, 29, ethiopic.GregorianDaysInMonth(2000, time.February))
	assert.Equal(t, 30, ethiopic.GregorianDaysInMonth(2024, time.September))
	assert.Equal(t, 31, ethiopic.GregorianDaysInMonth(2024, time.December))
	assert.Equal(t, 0, ethiopic.GregorianDaysInMonth(2024, 13))
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
