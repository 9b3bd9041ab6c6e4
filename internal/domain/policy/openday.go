package policy

import (
	"errors"
	"time"

	"campsite/internal/domain/shared/daterange"
)

var ErrOutsideBookingWindow = errors.New("policy: check-in date is outside the open booking window")

// MonthlyRoll rolls the booking window forward once a month: on TriggerDay the
// close boundary advances AddMonths months to TargetDay (or month end).
type MonthlyRoll struct {
	TriggerDay int  `json:"triggerDay"`
	AddMonths  int  `json:"addMonths"`
	TargetDay  int  `json:"targetDay"`
	EndOfMonth bool `json:"endOfMonth"`
}

// OpenDayRule bounds the horizon within which a check-in date may fall. With a
// monthly roll the effective window is recomputed from the current date, never
// stored.
type OpenDayRule struct {
	OpenAt  time.Time    `json:"openAt"`
	CloseAt time.Time    `json:"closeAt"`
	Monthly *MonthlyRoll `json:"monthly,omitempty"`
}

// Window resolves the effective [open, close] horizon as of now.
func (r OpenDayRule) Window(now time.Time) (time.Time, time.Time) {
	open, close := daterange.Date(r.OpenAt), daterange.Date(r.CloseAt)
	if r.Monthly == nil {
		return open, close
	}
	today := daterange.Date(now)
	months := r.Monthly.AddMonths
	if today.Day() < r.Monthly.TriggerDay {
		months--
	}
	target := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if r.Monthly.EndOfMonth {
		close = target.AddDate(0, 1, -1)
	} else {
		day := r.Monthly.TargetDay
		if last := target.AddDate(0, 1, -1).Day(); day > last {
			day = last
		}
		close = time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
	}
	return open, close
}

// AllowsCheckIn validates the check-in date against the effective window.
func (r OpenDayRule) AllowsCheckIn(checkIn, now time.Time) error {
	open, close := r.Window(now)
	d := daterange.Date(checkIn)
	if d.Before(open) || d.After(close) {
		return ErrOutsideBookingWindow
	}
	return nil
}
