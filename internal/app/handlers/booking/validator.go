package booking

import (
	"errors"
	"fmt"
	"time"

	"campsite/internal/domain/availability"
	"campsite/internal/domain/policy"
	"campsite/internal/domain/shared/daterange"
)

// ErrCheckInInPast rejects stays starting before today.
var ErrCheckInInPast = errors.New("booking: check-in date is in the past")

// ValidationError is an advisory policy rejection with a human-readable
// reason. It is independent of the overlap invariant.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "booking: " + e.Reason
}

// ValidateStay applies the calendar policy rules on top of the current
// occupancies, before any availability or persistence work.
//
// A Friday or Saturday check-in must stay at least the policy minimum, unless
// the immediately following Saturday is already booked on that site (a longer
// block is impossible anyway) or check-in is within the imminent-booking
// window of today.
func ValidateStay(pol policy.Policy, occs []availability.Occupancy, rng daterange.DateRange, now time.Time) error {
	if daterange.Date(rng.CheckIn).Before(daterange.Date(now)) {
		return ErrCheckInInPast
	}
	if !pol.RequiresMinStay(rng.CheckIn) {
		return nil
	}
	if rng.Nights() >= pol.MinStayNights {
		return nil
	}
	if availability.IsDateOccupied(occs, followingSaturday(rng.CheckIn)) {
		return nil
	}
	if pol.WithinImminentWindow(rng.CheckIn, now) {
		return nil
	}
	return &ValidationError{Reason: fmt.Sprintf("weekend check-in requires a stay of at least %d nights", pol.MinStayNights)}
}

func followingSaturday(checkIn time.Time) time.Time {
	d := daterange.Date(checkIn)
	days := (int(time.Saturday) - int(d.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDate(0, 0, days)
}
