package pricing

import (
	"errors"
	"time"

	"campsite/internal/domain/shared/daterange"
)

var (
	ErrInvalidOccupants = errors.New("pricing: occupant counts must be non-negative")
	ErrNoFamily         = errors.New("pricing: at least one family unit is required")
)

// Season is an admin-configured month/day window with elevated nightly rates.
// Year is ignored; a window may wrap the new year (e.g. Dec 20 - Jan 5).
type Season struct {
	Name       string `json:"name"`
	StartMonth int    `json:"startMonth"`
	StartDay   int    `json:"startDay"`
	EndMonth   int    `json:"endMonth"`
	EndDay     int    `json:"endDay"`
}

// Contains reports whether the calendar day falls inside the window, bounds
// inclusive.
func (s Season) Contains(t time.Time) bool {
	md := int(t.Month())*100 + t.Day()
	start := s.StartMonth*100 + s.StartDay
	end := s.EndMonth*100 + s.EndDay
	if start <= end {
		return md >= start && md <= end
	}
	// window wraps the year boundary
	return md >= start || md <= end
}

// Config holds the per-night rates and surcharges. Amounts are integer
// currency units. Changed rarely by admins; read-only during a calculation.
type Config struct {
	Weekday          int64    `json:"weekday"`
	Weekend          int64    `json:"weekend"`
	PeakWeekday      int64    `json:"peakWeekday"`
	PeakWeekend      int64    `json:"peakWeekend"`
	ExtraFamily      int64    `json:"extraFamily"`
	Visitor          int64    `json:"visitor"`
	LongStayDiscount int64    `json:"longStayDiscount"`
	LongStayNights   int      `json:"longStayNights"`
	Seasons          []Season `json:"seasons"`
}

// DefaultConfig mirrors the rates the platform launched with.
func DefaultConfig() Config {
	return Config{
		Weekday:          40000,
		Weekend:          70000,
		PeakWeekday:      70000,
		PeakWeekend:      70000,
		ExtraFamily:      10000,
		Visitor:          10000,
		LongStayDiscount: 10000,
		LongStayNights:   3,
		Seasons: []Season{
			{Name: "summer", StartMonth: 7, StartDay: 15, EndMonth: 8, EndDay: 24},
		},
	}
}

// HolidaySet is a set of calendar days treated as weekend nights.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from ISO date strings; malformed entries are
// ignored rather than failing the whole calendar.
func NewHolidaySet(dates []string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := daterange.ParseDate(d); err != nil {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

func (h HolidaySet) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[daterange.FormatDate(t)]
	return ok
}

// Breakdown is the result of a price calculation. TotalPrice stored on a
// reservation is only ever a cached copy of Breakdown.Total.
type Breakdown struct {
	Nights              int   `json:"nights"`
	Base                int64 `json:"basePrice"`
	ExtraFamily         int64 `json:"extraFamily"`
	Visitor             int64 `json:"visitor"`
	ConsecutiveDiscount int64 `json:"consecutiveDiscount"`
	PackageDiscount     int64 `json:"packageDiscount"`
	Total               int64 `json:"totalPrice"`
}

// Calculate maps a stay to a price breakdown. Pure and deterministic: the same
// inputs always yield the same breakdown, so a stored total can be re-derived
// on every admin modification.
//
// A night is "peak" when its date falls in any season window, and "weekend"
// when it starts on a Friday, a Saturday or a holiday. The first family unit
// is included in the base rate.
func Calculate(rng daterange.DateRange, familyCount, visitorCount int, cfg Config, holidays HolidaySet) (Breakdown, error) {
	if err := rng.Validate(); err != nil {
		return Breakdown{}, err
	}
	if familyCount < 0 || visitorCount < 0 {
		return Breakdown{}, ErrInvalidOccupants
	}
	if familyCount == 0 {
		return Breakdown{}, ErrNoFamily
	}

	b := Breakdown{Nights: rng.Nights()}
	for _, night := range rng.Dates() {
		b.Base += nightlyRate(night, cfg, holidays)
	}
	b.ExtraFamily = int64(familyCount-1) * cfg.ExtraFamily
	b.Visitor = int64(visitorCount) * cfg.Visitor
	if cfg.LongStayNights > 0 && b.Nights >= cfg.LongStayNights {
		b.ConsecutiveDiscount = cfg.LongStayDiscount
	}

	b.Total = b.Base + b.ExtraFamily + b.Visitor - b.ConsecutiveDiscount - b.PackageDiscount
	if b.Total < 0 {
		b.Total = 0
	}
	return b, nil
}

func nightlyRate(night time.Time, cfg Config, holidays HolidaySet) int64 {
	peak := false
	for _, season := range cfg.Seasons {
		if season.Contains(night) {
			peak = true
			break
		}
	}
	weekend := isWeekendNight(night, holidays)
	switch {
	case peak && weekend:
		return cfg.PeakWeekend
	case peak:
		return cfg.PeakWeekday
	case weekend:
		return cfg.Weekend
	default:
		return cfg.Weekday
	}
}

func isWeekendNight(night time.Time, holidays HolidaySet) bool {
	wd := night.Weekday()
	if wd == time.Friday || wd == time.Saturday {
		return true
	}
	return holidays.Contains(night)
}
