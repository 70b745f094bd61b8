package model

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date with no time of day or zone attached.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf returns the calendar day of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Date: d}
}

// ParseDay parses a YYYY-MM-DD key.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.midnightUTC().Format(dayLayout)
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.midnightUTC().AddDate(0, 0, n), time.UTC)
}

// Sub returns the number of whole days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.midnightUTC().Sub(o.midnightUTC()).Hours() / 24)
}

// Before reports whether d is earlier than o.
func (d Day) Before(o Day) bool {
	return d.Sub(o) < 0
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// UTC midnight keeps day arithmetic free of DST shifts.
func (d Day) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}
