package policy

import (
	"errors"
	"time"

	"campsite/internal/domain/shared/daterange"
)

var (
	ErrInvalidDeadlineHours = errors.New("policy: deadline hours must be one of 3, 6, 9, 12")
	ErrNoRefundTiers        = errors.New("policy: at least one refund tier is required")
)

// RefundTier grants Rate percent back when the cancellation happens at least
// MinDaysBefore calendar days ahead of check-in. Tiers are ordered by
// MinDaysBefore descending.
type RefundTier struct {
	MinDaysBefore int `json:"minDaysBefore"`
	RatePercent   int `json:"ratePercent"`
}

// Policy is the versioned bundle of business rules the engine consults.
// Extracted from code so tests and admins can substitute alternates without
// touching the engine.
type Policy struct {
	Version              string       `json:"version"`
	RefundTiers          []RefundTier `json:"refundTiers"`
	MinStayNights        int          `json:"minStayNights"`
	ImminentWindowDays   int          `json:"imminentWindowDays"`
	DepositDeadlineHours int          `json:"depositDeadlineHours"`
}

// Default returns the launch policy.
func Default() Policy {
	return Policy{
		Version: "2024-01",
		RefundTiers: []RefundTier{
			{MinDaysBefore: 7, RatePercent: 100},
			{MinDaysBefore: 5, RatePercent: 90},
			{MinDaysBefore: 3, RatePercent: 50},
			{MinDaysBefore: 1, RatePercent: 20},
			{MinDaysBefore: 0, RatePercent: 0},
		},
		MinStayNights:        2,
		ImminentWindowDays:   7,
		DepositDeadlineHours: 6,
	}
}

func (p Policy) Validate() error {
	switch p.DepositDeadlineHours {
	case 3, 6, 9, 12:
	default:
		return ErrInvalidDeadlineHours
	}
	if len(p.RefundTiers) == 0 {
		return ErrNoRefundTiers
	}
	return nil
}

// RefundRate resolves the refund percentage for a cancellation happening
// daysBefore calendar days ahead of check-in. Same-day or later cancellations
// refund nothing.
func (p Policy) RefundRate(daysBefore int) int {
	if daysBefore < 0 {
		return 0
	}
	for _, tier := range p.RefundTiers {
		if daysBefore >= tier.MinDaysBefore {
			return tier.RatePercent
		}
	}
	return 0
}

// RefundAmount rounds half up on the percentage split.
func RefundAmount(total int64, ratePercent int) int64 {
	if ratePercent <= 0 || total <= 0 {
		return 0
	}
	if ratePercent > 100 {
		ratePercent = 100
	}
	return (total*int64(ratePercent) + 50) / 100
}

// RequiresMinStay reports whether the check-in day triggers the weekend
// minimum-stay rule.
func (p Policy) RequiresMinStay(checkIn time.Time) bool {
	wd := daterange.Date(checkIn).Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// WithinImminentWindow reports whether check-in is close enough to today that
// last-minute single-night gap fills are allowed.
func (p Policy) WithinImminentWindow(checkIn, now time.Time) bool {
	days := daterange.DaysBetween(now, checkIn)
	return days >= 0 && days <= p.ImminentWindowDays
}
