package xl

import (
	"fmt"
	"math"
	"time"
)

// DateTimeOf decomposes t in its own location.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

// TimeOnly reports whether the value carries no calendar date.
func (d DateTime) TimeOnly() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d DateTime) validate(date1904 bool) error {
	if math.IsNaN(d.Second) || math.IsInf(d.Second, 0) {
		return fmt.Errorf("second: %w", ErrInvalidNumber)
	}
	if d.Hour < 0 || d.Hour > 23 || d.Minute < 0 || d.Minute > 59 || d.Second < 0 || d.Second >= 60 {
		return fmt.Errorf("time %02d:%02d:%06.3f: %w", d.Hour, d.Minute, d.Second, ErrInvalidNumber)
	}
	if d.TimeOnly() {
		return nil
	}
	minYear := 1900
	if date1904 {
		minYear = 1904
	}
	if d.Year < minYear || d.Year > 9999 || d.Month < 1 || d.Month > 12 || d.Day < 1 ||
		d.Day > daysIn(time.Month(d.Month), d.Year) {
		return fmt.Errorf("date %04d-%02d-%02d: %w", d.Year, d.Month, d.Day, ErrInvalidNumber)
	}
	return nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var (
	epoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
	leapBug   = time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// serial converts the value to a spreadsheet serial number. The 1900 date
// system counts the non-existent 1900-02-29, so earlier dates shift by one.
func (d DateTime) serial(date1904 bool) float64 {
	frac := (float64(d.Hour)*3600 + float64(d.Minute)*60 + d.Second) / 86400
	if d.TimeOnly() {
		return frac
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	var days float64
	if date1904 {
		days = float64((t.Unix() - epoch1904.Unix()) / 86400)
	} else {
		days = float64((t.Unix() - epoch1900.Unix()) / 86400)
		if t.Before(leapBug) {
			days--
		}
	}
	return days + frac
}
