package scheduler

import "errors"

var (
	ErrNoEligibleDays    = errors.New("no eligible study days")
	ErrInvalidWeekday    = errors.New("weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidDailyLimit = errors.New("daily limit must be a positive number of minutes")
	ErrInvalidDuration   = errors.New("duration must be a finite, non-negative number of minutes")
	ErrInvalidMultiplier = errors.New("multiplier must be a finite, positive number")
)
