// ABOUTME: Calendar describes how instants map onto the user's local days and weeks.
// ABOUTME: Used by the statistics engine and timeline grouping for bucketing.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Calendar is a location plus the weekday a week starts on.
type Calendar struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

// Local returns a Monday-first calendar in the process's local time zone.
func Local() Calendar {
	return Calendar{Location: time.Local, FirstWeekday: time.Monday}
}

// New builds a calendar from an IANA zone name ("" means local) and a weekday name.
func New(timezone, firstWeekday string) (Calendar, error) {
	cal := Local()

	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return Calendar{}, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
		cal.Location = loc
	}

	if firstWeekday != "" {
		wd, err := ParseWeekday(firstWeekday)
		if err != nil {
			return Calendar{}, err
		}
		cal.FirstWeekday = wd
	}

	return cal, nil
}

// ParseWeekday parses a weekday name like "monday" or "Sun".
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if key == name || key == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %q", s)
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay returns midnight of t's calendar day.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	lt := t.In(c.location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
}

// StartOfWeek returns midnight of the first day of t's calendar week.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := (int(day.Weekday()) - int(c.FirstWeekday) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
