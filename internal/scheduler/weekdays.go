package scheduler

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var rruleWeekdays = [7]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// Weekdays is the set of days of the week on which work may be scheduled.
// The zero value is empty and is rejected by New.
type Weekdays struct {
	set [7]bool
	n   int
}

// NewWeekdays builds an eligible set from day numbers, 0 (Monday) through
// 6 (Sunday). Duplicates are ignored.
func NewWeekdays(days ...int) (Weekdays, error) {
	var w Weekdays
	for _, d := range days {
		if d < 0 || d > 6 {
			return Weekdays{}, fmt.Errorf("%w: got %d", ErrInvalidWeekday, d)
		}
		if !w.set[d] {
			w.set[d] = true
			w.n++
		}
	}
	if w.n == 0 {
		return Weekdays{}, ErrNoEligibleDays
	}
	return w, nil
}

func (w Weekdays) Contains(day int) bool {
	return day >= 0 && day < 7 && w.set[day]
}

func (w Weekdays) Len() int {
	return w.n
}

// Days returns the members in ascending order.
func (w Weekdays) Days() []int {
	days := make([]int, 0, w.n)
	for d, ok := range w.set {
		if ok {
			days = append(days, d)
		}
	}
	return days
}

func (w Weekdays) String() string {
	names := make([]string, 0, w.n)
	for _, d := range w.Days() {
		names = append(names, weekdayNames[d])
	}
	return strings.Join(names, ",")
}

// WeekdayName returns the short English name for a day number.
func WeekdayName(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return weekdayNames[day]
}

// from returns a generator of eligible dates on or after start, in order.
func (w Weekdays) from(start Date) (func() Date, error) {
	byday := make([]rrule.Weekday, 0, w.n)
	for _, d := range w.Days() {
		byday = append(byday, rruleWeekdays[d])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start.midnight(),
		Byweekday: byday,
	})
	if err != nil {
		return nil, fmt.Errorf("building study day recurrence: %w", err)
	}

	next := rule.Iterator()
	last := start.AddDays(-1)
	return func() Date {
		if t, ok := next(); ok {
			last = DateOf(t)
			return last
		}
		// The rule has no COUNT or UNTIL, so this only runs past the
		// library's horizon.
		for {
			last = last.AddDays(1)
			if w.Contains(last.Weekday()) {
				return last
			}
		}
	}, nil
}
