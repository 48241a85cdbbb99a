package scheduler

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar decides which calendar days count as working days. The zero
// value treats every day as a working day; use DefaultCalendar for the
// Saturday/Sunday weekend.
type Calendar struct {
	weekend  [7]bool
	holidays map[string]bool
}

// DefaultCalendar returns a calendar with a Saturday/Sunday weekend and no
// holidays.
func DefaultCalendar() Calendar {
	c := Calendar{}
	c.weekend[time.Saturday] = true
	c.weekend[time.Sunday] = true
	return c
}

// NewCalendar builds a calendar from explicit weekend days and holiday
// dates. At least one weekday must remain a working day.
func NewCalendar(weekend []time.Weekday, holidays []time.Time) (Calendar, error) {
	c := Calendar{holidays: make(map[string]bool, len(holidays))}
	for _, d := range weekend {
		if d < time.Sunday || d > time.Saturday {
			return Calendar{}, fmt.Errorf("invalid weekday %d", d)
		}
		c.weekend[d] = true
	}
	working := 0
	for _, off := range c.weekend {
		if !off {
			working++
		}
	}
	if working == 0 {
		return Calendar{}, fmt.Errorf("calendar has no working weekdays")
	}
	for _, h := range holidays {
		c.holidays[h.Format(dateLayout)] = true
	}
	return c, nil
}

// IsWorkingDay reports whether d is neither a weekend day nor a holiday.
func (c Calendar) IsWorkingDay(d time.Time) bool {
	if c.weekend[d.Weekday()] {
		return false
	}
	return !c.holidays[d.Format(dateLayout)]
}

// NextWorkingDay returns d when it is a working day, otherwise the first
// working day after it.
func (c Calendar) NextWorkingDay(d time.Time) time.Time {
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkingDays steps forward from start one calendar day at a time and
// returns the day on which the n-th working day has been counted. A task
// of n days starting on start finishes on the returned date, which is also
// the earliest start of anything that depends on it. n <= 0 returns start.
func (c Calendar) AddWorkingDays(start time.Time, n int) time.Time {
	d := start
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			n--
		}
	}
	return d
}

// WorkingDaysBetween counts working days in (from, to]. It is negative
// when to is before from.
func (c Calendar) WorkingDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return -c.WorkingDaysBetween(to, from)
	}
	count := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
