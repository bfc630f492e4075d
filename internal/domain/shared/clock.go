package shared

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Clock abstracts the current time so "today" can be pinned in tests
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the program's time zone
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a clock for the named IANA zone
func NewSystemClock(zone string) (SystemClock, error) {
	if zone == "" {
		return SystemClock{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return SystemClock{}, fmt.Errorf("failed to load time zone %q: %w", zone, err)
	}
	return SystemClock{Location: loc}, nil
}

// Now implements Clock
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now implements Clock
func (c FixedClock) Now() time.Time {
	return c.At
}

// DateOf strips the time of day, keeping the calendar date of t in t's own
// location. The result is midnight UTC so dates compare and persist uniformly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of clock
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}

// ParseDate parses a YYYY-MM-DD string into a calendar date
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// MustDate is ParseDate for literals known to be valid
func MustDate(value string) time.Time {
	t, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
