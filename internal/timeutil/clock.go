// Package timeutil converts schedule time strings to minute-of-day values and
// resolves "now" and "today" in the operating timezone.
package timeutil

import (
	"strings"
	"time"
)

const DefaultTimezone = "America/Los_Angeles"

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Clock reports the current time in a fixed location. The now function is
// swappable so callers can pin the clock in tests.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	return NewClockAt(loc, time.Now)
}

func NewClockAt(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// LoadLocation resolves name, falling back to DefaultTimezone when empty.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) MinutesOfDay() int {
	return MinutesOfDay(c.Now())
}

func (c *Clock) DayName() string {
	return DayName(c.Now())
}

// DayBounds returns [start, end) of the current calendar day.
func (c *Clock) DayBounds() (time.Time, time.Time) {
	return DayBounds(c.Now())
}

// OnToday reports whether ts falls on the current calendar day in the clock's location.
func (c *Clock) OnToday(ts time.Time) bool {
	start, end := c.DayBounds()
	ts = ts.In(c.loc)
	return !ts.Before(start) && ts.Before(end)
}

// CurrentMinutesOfDay returns minutes since midnight for now in loc.
func CurrentMinutesOfDay(loc *time.Location) int {
	return MinutesOfDay(time.Now().In(loc))
}

// CurrentDayName returns the weekday name for now in loc, e.g. "Monday".
func CurrentDayName(loc *time.Location) string {
	return DayName(time.Now().In(loc))
}

func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func DayName(t time.Time) string {
	return t.Weekday().String()
}

func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// HourIn returns the hour of ts in loc.
func HourIn(ts time.Time, loc *time.Location) int {
	if loc == nil {
		return ts.Hour()
	}
	return ts.In(loc).Hour()
}

// WeekdayIndex orders days Monday first. Matching is case-insensitive.
func WeekdayIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, d := range weekdays {
		if strings.EqualFold(d, name) {
			return i, true
		}
	}
	return 0, false
}

// NormalizeDay returns the canonical weekday spelling, or "" for unknown input.
func NormalizeDay(name string) string {
	if i, ok := WeekdayIndex(name); ok {
		return weekdays[i]
	}
	return ""
}

// IsPastDay reports whether selected comes before today in the current
// Monday-first week, or is the day immediately before today. The second case
// makes Sunday past on a Monday.
func IsPastDay(selected, today string) bool {
	s, ok := WeekdayIndex(selected)
	if !ok {
		return false
	}
	t, ok := WeekdayIndex(today)
	if !ok {
		return false
	}
	return s < t || (s+1)%len(weekdays) == t
}
