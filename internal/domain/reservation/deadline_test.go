package reservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/domain/pricing"
	"campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
)

func pendingCreatedAt(t *testing.T, createdAt time.Time) *reservation.Reservation {
	t.Helper()
	dr, err := daterange.Parse("2025-07-18", "2025-07-20")
	require.NoError(t, err)
	res, err := reservation.New(reservation.CreateParams{
		ID:          "res-d",
		UserID:      "user-1",
		SiteID:      "A1",
		Range:       dr,
		FamilyCount: 1,
		Price:       pricing.Breakdown{Total: 140000},
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	return res
}

func TestGraceBoundary(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2025, 7, 1, h, m, 0, 0, time.UTC)
	}
	cases := []struct {
		name     string
		deadline time.Time
		grace    time.Time
	}{
		{"night deadline stretches to morning", day(5, 0), day(9, 0)},
		{"just before business hours", day(8, 59), day(9, 0)},
		{"morning deadline stretches to evening", day(9, 0), day(18, 0)},
		{"afternoon deadline stretches to evening", day(17, 59), day(18, 0)},
		{"evening deadline stretches to next morning", day(18, 0), time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)},
		{"late night stretches to next morning", day(23, 30), time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.grace, reservation.GraceBoundary(tc.deadline))
		})
	}
}

func TestClassifyDeadline(t *testing.T) {
	// Created 23:00 with a 6 hour deadline: due 05:00, grace until 09:00.
	created := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	res := pendingCreatedAt(t, created)

	deadline := res.DepositDeadline(6)
	assert.Equal(t, time.Date(2025, 7, 1, 5, 0, 0, 0, time.UTC), deadline)

	at := func(h, m int) time.Time { return time.Date(2025, 7, 1, h, m, 0, 0, time.UTC) }

	assert.Equal(t, reservation.DeadlineOnTime, res.ClassifyDeadline(6, at(4, 59)))
	assert.Equal(t, reservation.DeadlineWarning, res.ClassifyDeadline(6, at(5, 0)))
	assert.Equal(t, reservation.DeadlineWarning, res.ClassifyDeadline(6, at(6, 0)))
	assert.Equal(t, reservation.DeadlineWarning, res.ClassifyDeadline(6, at(9, 0)), "grace boundary itself is still a warning")
	assert.Equal(t, reservation.DeadlineOverdue, res.ClassifyDeadline(6, at(9, 1)))
}

func TestClassifyDeadlineIgnoresNonPending(t *testing.T) {
	created := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	res := pendingCreatedAt(t, created)
	require.NoError(t, res.ConfirmDeposit(created.Add(time.Hour)))

	late := time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, reservation.DeadlineOnTime, res.ClassifyDeadline(6, late))
}
