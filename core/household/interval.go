package household

import (
	"time"

	"roommates/internal/errors"
)

const day = 24 * time.Hour

// Date is a calendar date without time zone, stored as UTC midnight
type Date struct {
	t time.Time
}

// NewDate creates a Date from year, month, day. Out-of-range values
// normalize the way time.Date does.
func NewDate(year int, month time.Month, d int) Date {
	return Date{t: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date in the time's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses s with a Go time layout such as "01/02/2006"
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, errors.InvalidDate(s, err)
	}
	return DateOf(t), nil
}

// Time returns the date as UTC midnight
func (d Date) Time() time.Time {
	return d.t
}

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same day
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the signed number of days from d to other
func (d Date) DaysUntil(other Date) int64 {
	return int64(other.t.Sub(d.t) / day)
}

// Format formats the date with a Go time layout
func (d Date) Format(layout string) string {
	return d.t.Format(layout)
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

func minDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// DateInterval is the time between a start date and an end date, inclusive
type DateInterval struct {
	start Date
	end   Date
}

// NewDateInterval creates an interval; end must not precede start
func NewDateInterval(start, end Date) (DateInterval, error) {
	if end.Before(start) {
		return DateInterval{}, errors.NegativeLengthInterval(start.String(), end.String())
	}
	return DateInterval{start: start, end: end}, nil
}

// MustDateInterval is like NewDateInterval but panics on error
func MustDateInterval(start, end Date) DateInterval {
	iv, err := NewDateInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// ParseDateInterval parses both ends with layout, e.g. "01/02/2006"
func ParseDateInterval(layout, start, end string) (DateInterval, error) {
	s, err := ParseDate(layout, start)
	if err != nil {
		return DateInterval{}, err
	}
	e, err := ParseDate(layout, end)
	if err != nil {
		return DateInterval{}, err
	}
	return NewDateInterval(s, e)
}

// Start is the first day of the interval
func (iv DateInterval) Start() Date {
	return iv.start
}

// End is the last day of the interval
func (iv DateInterval) End() Date {
	return iv.end
}

// Days returns the number of days in the interval, counting both ends
func (iv DateInterval) Days() int64 {
	return iv.start.DaysUntil(iv.end) + 1
}

// DaysWithin returns the number of days of iv that lie inside bounds.
// Disjoint intervals yield zero.
func (iv DateInterval) DaysWithin(bounds DateInterval) int64 {
	n := maxDate(iv.start, bounds.start).DaysUntil(minDate(iv.end, bounds.end)) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Contains reports whether d falls inside the interval
func (iv DateInterval) Contains(d Date) bool {
	return !d.Before(iv.start) && !d.After(iv.end)
}

// String formats the interval as "start..end"
func (iv DateInterval) String() string {
	return iv.start.String() + ".." + iv.end.String()
}
