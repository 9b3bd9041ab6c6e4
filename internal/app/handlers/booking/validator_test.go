package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/app/handlers/booking"
	"campsite/internal/domain/availability"
	"campsite/internal/domain/policy"
	"campsite/internal/domain/shared/daterange"
)

var monday = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func stay(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	rng, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return rng
}

func TestValidateStayRejectsPastCheckIn(t *testing.T) {
	err := booking.ValidateStay(policy.Default(), nil, stay(t, "2025-06-01", "2025-06-03"), monday)
	assert.ErrorIs(t, err, booking.ErrCheckInInPast)
}

func TestValidateStayWeekdaySingleNightAllowed(t *testing.T) {
	err := booking.ValidateStay(policy.Default(), nil, stay(t, "2025-06-09", "2025-06-10"), monday)
	assert.NoError(t, err)
}

func TestValidateStayWeekendSingleNightRejected(t *testing.T) {
	// Friday check-in three weeks out, one night only.
	err := booking.ValidateStay(policy.Default(), nil, stay(t, "2025-06-20", "2025-06-21"), monday)

	var validation *booking.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "at least 2 nights")
}

func TestValidateStayWeekendMinimumMet(t *testing.T) {
	err := booking.ValidateStay(policy.Default(), nil, stay(t, "2025-06-20", "2025-06-22"), monday)
	assert.NoError(t, err)
}

func TestValidateStayEndCapException(t *testing.T) {
	// The following Saturday night is already taken, so a longer weekend
	// block is impossible; the single Friday night is accepted.
	satNight, err := daterange.Parse("2025-06-21", "2025-06-22")
	require.NoError(t, err)
	occs := []availability.Occupancy{{Reference: "r9", SiteID: "A1", Range: satNight}}

	assert.NoError(t, booking.ValidateStay(policy.Default(), occs, stay(t, "2025-06-20", "2025-06-21"), monday))
}

func TestValidateStayImminentWindowException(t *testing.T) {
	// Friday four days out falls inside the last-minute window.
	err := booking.ValidateStay(policy.Default(), nil, stay(t, "2025-06-06", "2025-06-07"), monday)
	assert.NoError(t, err)
}
