package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/domain/shared/daterange"
)

func TestParse(t *testing.T) {
	dr, err := daterange.Parse("2025-07-18", "2025-07-20")
	require.NoError(t, err)
	assert.Equal(t, 2, dr.Nights())
	assert.Equal(t, time.July, dr.CheckIn.Month())
	assert.Equal(t, time.UTC, dr.CheckIn.Location())
}

func TestParseRejectsMalformedDates(t *testing.T) {
	_, err := daterange.Parse("18-07-2025", "2025-07-20")
	assert.ErrorIs(t, err, daterange.ErrInvalidDate)

	_, err = daterange.Parse("2025-07-20", "oops")
	assert.ErrorIs(t, err, daterange.ErrInvalidDate)
}

func TestNewRejectsInvertedAndZeroNightRanges(t *testing.T) {
	day := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)

	_, err := daterange.New(day, day)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = daterange.New(day.AddDate(0, 0, 1), day)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestNewTruncatesToCalendarDays(t *testing.T) {
	in := time.Date(2025, 7, 18, 15, 30, 0, 0, time.FixedZone("KST", 9*3600))
	out := time.Date(2025, 7, 19, 11, 0, 0, 0, time.UTC)
	dr, err := daterange.New(in, out)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-18/2025-07-19", dr.String())
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	base, err := daterange.Parse("2025-07-18", "2025-07-20")
	require.NoError(t, err)

	cases := []struct {
		name     string
		in, out  string
		overlaps bool
	}{
		{"identical", "2025-07-18", "2025-07-20", true},
		{"contained", "2025-07-18", "2025-07-19", true},
		{"straddles start", "2025-07-17", "2025-07-19", true},
		{"straddles end", "2025-07-19", "2025-07-21", true},
		{"back to back after", "2025-07-20", "2025-07-22", false},
		{"back to back before", "2025-07-16", "2025-07-18", false},
		{"disjoint", "2025-08-01", "2025-08-03", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other, err := daterange.Parse(tc.in, tc.out)
			require.NoError(t, err)
			assert.Equal(t, tc.overlaps, base.Overlaps(other))
			assert.Equal(t, tc.overlaps, other.Overlaps(base))
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr, err := daterange.Parse("2025-07-18", "2025-07-20")
	require.NoError(t, err)

	assert.True(t, dr.ContainsDate(time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)))
	assert.True(t, dr.ContainsDate(time.Date(2025, 7, 19, 23, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC)))
}

func TestDatesEnumeratesNights(t *testing.T) {
	dr, err := daterange.Parse("2025-07-18", "2025-07-21")
	require.NoError(t, err)

	nights := dr.Dates()
	require.Len(t, nights, 3)
	assert.Equal(t, "2025-07-18", daterange.FormatDate(nights[0]))
	assert.Equal(t, "2025-07-20", daterange.FormatDate(nights[2]))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 7, 18, 22, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 25, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, daterange.DaysBetween(from, to))
	assert.Equal(t, -7, daterange.DaysBetween(to, from))
	assert.Equal(t, 0, daterange.DaysBetween(from, from))
}
