package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
	ErrInvalidDate  = errors.New("daterange: date must be formatted YYYY-MM-DD")
)

// ISO is the wire format for calendar dates crossing the persistence boundary.
const ISO = "2006-01-02"

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate decodes a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate encodes a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(ISO)
}

// DateRange represents a half-open interval [checkIn, checkOut) of calendar days.
// A stay checking out on day X never conflicts with one checking in on day X.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Date(checkIn), CheckOut: Date(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return New(in, out)
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Nights() int {
	return int(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	d := Date(t)
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Dates enumerates every night of the stay, checkout day excluded.
func (dr DateRange) Dates() []time.Time {
	nights := dr.Nights()
	if nights <= 0 {
		return nil
	}
	out := make([]time.Time, 0, nights)
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (dr DateRange) String() string {
	return FormatDate(dr.CheckIn) + "/" + FormatDate(dr.CheckOut)
}

// DaysBetween returns the calendar-day difference to minus from. Negative when
// to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}
