package scheduler

import (
	"fmt"
	"math"
)

// exhausted is the slack, in minutes, below which a day counts as full and
// within which an item's remainder still finishes on the current day. It only
// absorbs floating point residue left by fractional durations; item time is
// never dropped.
const exhausted = 1e-9

// WorkItem is one class to schedule. Minutes may be fractional.
type WorkItem struct {
	Status  string
	Title   string
	Minutes float64
}

// Entry is the share of one WorkItem placed on one day.
type Entry struct {
	Item             int // index of the WorkItem in the scheduled slice
	Status           string
	Title            string
	AllocatedMinutes float64
	OriginalMinutes  float64
}

// Partial reports whether the entry is a fragment of an item split across days.
func (e Entry) Partial() bool {
	return e.AllocatedMinutes != e.OriginalMinutes
}

// Scheduler packs work items greedily into consecutive eligible days.
type Scheduler struct {
	days       Weekdays
	dailyLimit float64
}

func New(days Weekdays, dailyLimitMinutes float64) (*Scheduler, error) {
	if days.Len() == 0 {
		return nil, ErrNoEligibleDays
	}
	if math.IsNaN(dailyLimitMinutes) || math.IsInf(dailyLimitMinutes, 0) || dailyLimitMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDailyLimit, dailyLimitMinutes)
	}
	return &Scheduler{days: days, dailyLimit: dailyLimitMinutes}, nil
}

func (s *Scheduler) DailyLimit() float64 {
	return s.dailyLimit
}

func (s *Scheduler) Weekdays() Weekdays {
	return s.days
}

// Schedule assigns items, in order, to eligible days starting at start. Each
// day receives at most the daily limit. An item that does not fit in what is
// left of a day is split, and the rest carries over to the next eligible day.
// A day only closes once its budget is spent, so the next item keeps filling
// a partially used day.
//
// Items are validated up front; a negative or non-finite duration fails the
// whole call. Zero-length items produce no entry.
func (s *Scheduler) Schedule(items []WorkItem, start Date) (*Schedule, error) {
	for i, item := range items {
		if err := validateMinutes(item.Minutes); err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i, item.Title, err)
		}
	}

	next, err := s.days.from(start)
	if err != nil {
		return nil, err
	}

	sched := newSchedule()
	day := next()
	timeLeft := s.dailyLimit

	for i, item := range items {
		remaining := item.Minutes
		for remaining > 0 {
			allocated := math.Min(timeLeft, remaining)
			if remaining-timeLeft <= exhausted {
				allocated = remaining
			}
			sched.add(day, Entry{
				Item:             i,
				Status:           item.Status,
				Title:            item.Title,
				AllocatedMinutes: allocated,
				OriginalMinutes:  item.Minutes,
			})
			timeLeft -= allocated
			remaining -= allocated

			if timeLeft <= exhausted {
				day = next()
				timeLeft = s.dailyLimit
			}
		}
	}

	return sched, nil
}

// ApplyMultiplier returns a copy of items with every duration scaled by
// multiplier. The input slice is left untouched.
func ApplyMultiplier(items []WorkItem, multiplier float64) ([]WorkItem, error) {
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMultiplier, multiplier)
	}
	scaled := make([]WorkItem, len(items))
	for i, item := range items {
		item.Minutes *= multiplier
		scaled[i] = item
	}
	return scaled, nil
}

func validateMinutes(m float64) error {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, m)
	}
	return nil
}
