package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/domain/availability"
	"campsite/internal/domain/shared/daterange"
)

func occ(t *testing.T, ref, in, out string) availability.Occupancy {
	t.Helper()
	rng, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return availability.Occupancy{Reference: ref, SiteID: "A1", Range: rng}
}

func TestOverlaps(t *testing.T) {
	occs := []availability.Occupancy{
		occ(t, "r1", "2025-07-18", "2025-07-20"),
		occ(t, "b1", "2025-07-25", "2025-07-27"),
	}

	probe := func(in, out string) daterange.DateRange {
		rng, err := daterange.Parse(in, out)
		require.NoError(t, err)
		return rng
	}

	assert.True(t, availability.Overlaps(occs, probe("2025-07-19", "2025-07-21"), ""))
	assert.False(t, availability.Overlaps(occs, probe("2025-07-20", "2025-07-25"), ""), "back to back stays never conflict")
	assert.True(t, availability.Overlaps(occs, probe("2025-07-26", "2025-07-28"), ""))
}

func TestOverlapsExcludesOwnReference(t *testing.T) {
	occs := []availability.Occupancy{occ(t, "r1", "2025-07-18", "2025-07-20")}
	rng, err := daterange.Parse("2025-07-18", "2025-07-21")
	require.NoError(t, err)

	assert.True(t, availability.Overlaps(occs, rng, ""))
	assert.False(t, availability.Overlaps(occs, rng, "r1"), "an entity never conflicts with itself")
}

func TestIsDateOccupied(t *testing.T) {
	occs := []availability.Occupancy{occ(t, "r1", "2025-07-18", "2025-07-20")}

	assert.True(t, availability.IsDateOccupied(occs, time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)))
	assert.True(t, availability.IsDateOccupied(occs, time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)))
	assert.False(t, availability.IsDateOccupied(occs, time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)), "checkout day is free")
}

func TestMaxBlockNightsUntilNextOccupancy(t *testing.T) {
	occs := []availability.Occupancy{occ(t, "r1", "2025-07-25", "2025-07-27")}
	start := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, availability.MaxBlockNights(occs, start))
}

func TestMaxBlockNightsClearCalendarRunsThroughMonthEnd(t *testing.T) {
	start := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)

	// Clear calendar: through July 31 inclusive, checkout August 1.
	assert.Equal(t, 12, availability.MaxBlockNights(nil, start))
}

func TestMaxBlockNightsIgnoresOccupanciesBeforeStart(t *testing.T) {
	occs := []availability.Occupancy{occ(t, "r1", "2025-07-10", "2025-07-12")}
	start := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, availability.MaxBlockNights(occs, start))
}
