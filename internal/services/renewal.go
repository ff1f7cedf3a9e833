package services

import (
	"math"
	"time"

	"subtrackr/internal/core"
)

// DefaultUpcomingWindowDays is how close a renewal must be to count as upcoming.
const DefaultUpcomingWindowDays = 7

// RenewalChecker decides how urgent a subscription's next renewal is.
type RenewalChecker struct {
	WindowDays int
}

func NewRenewalChecker() RenewalChecker {
	return RenewalChecker{WindowDays: DefaultUpcomingWindowDays}
}

// DaysUntil returns ceil((renewal - now) / 24h). The renewal date is taken at
// UTC midnight, so a renewal later today counts as 0 or 1 depending on the hour.
// Past dates give zero or negative values.
func (c RenewalChecker) DaysUntil(renewalDate string, now time.Time) (int, error) {
	renewal, err := core.ParseRenewalDate(renewalDate)
	if err != nil {
		return 0, err
	}
	days := math.Ceil(renewal.Sub(now).Hours() / 24)
	if days == 0 { // ceil of a small negative is -0
		return 0, nil
	}
	return int(days), nil
}

// IsUpcoming reports whether days falls inside the window. Overdue renewals are upcoming too.
func (c RenewalChecker) IsUpcoming(days int) bool {
	return days <= c.WindowDays
}

// Check combines DaysUntil and IsUpcoming. An unparseable date is never upcoming.
func (c RenewalChecker) Check(s core.Subscription, now time.Time) (days int, upcoming bool, err error) {
	days, err = c.DaysUntil(s.RenewalDate, now)
	if err != nil {
		return 0, false, err
	}
	return days, c.IsUpcoming(days), nil
}
