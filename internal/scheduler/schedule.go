package scheduler

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schedule maps each date that received work to its entries. Dates iterate
// in insertion order, which is always chronological.
type Schedule struct {
	days *orderedmap.OrderedMap[Date, []Entry]
}

// Day is one date of a Schedule with its entries in placement order.
type Day struct {
	Date    Date
	Entries []Entry
}

func newSchedule() *Schedule {
	return &Schedule{days: orderedmap.New[Date, []Entry]()}
}

func (s *Schedule) add(d Date, e Entry) {
	if newest := s.days.Newest(); newest != nil && d.Before(newest.Key) {
		panic(fmt.Sprintf("scheduler: date %s added after %s", d, newest.Key))
	}
	entries, _ := s.days.Get(d)
	s.days.Set(d, append(entries, e))
}

// Len returns the number of scheduled dates.
func (s *Schedule) Len() int {
	return s.days.Len()
}

func (s *Schedule) Dates() []Date {
	dates := make([]Date, 0, s.days.Len())
	for pair := s.days.Oldest(); pair != nil; pair = pair.Next() {
		dates = append(dates, pair.Key)
	}
	return dates
}

// Entries returns a copy of the entries placed on d, or nil.
func (s *Schedule) Entries(d Date) []Entry {
	entries, ok := s.days.Get(d)
	if !ok {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (s *Schedule) Days() []Day {
	days := make([]Day, 0, s.days.Len())
	for pair := s.days.Oldest(); pair != nil; pair = pair.Next() {
		entries := make([]Entry, len(pair.Value))
		copy(entries, pair.Value)
		days = append(days, Day{Date: pair.Key, Entries: entries})
	}
	return days
}

// AllocatedOn sums the minutes placed on d.
func (s *Schedule) AllocatedOn(d Date) float64 {
	entries, _ := s.days.Get(d)
	var total float64
	for _, e := range entries {
		total += e.AllocatedMinutes
	}
	return total
}

// Total sums the minutes placed across all dates.
func (s *Schedule) Total() float64 {
	var total float64
	for pair := s.days.Oldest(); pair != nil; pair = pair.Next() {
		for _, e := range pair.Value {
			total += e.AllocatedMinutes
		}
	}
	return total
}

func (s *Schedule) FirstDate() (Date, bool) {
	if oldest := s.days.Oldest(); oldest != nil {
		return oldest.Key, true
	}
	return Date{}, false
}

func (s *Schedule) LastDate() (Date, bool) {
	if newest := s.days.Newest(); newest != nil {
		return newest.Key, true
	}
	return Date{}, false
}
