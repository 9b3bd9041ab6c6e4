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

func newReservation(t *testing.T) *reservation.Reservation {
	t.Helper()
	dr, err := daterange.Parse("2025-07-18", "2025-07-20")
	require.NoError(t, err)
	res, err := reservation.New(reservation.CreateParams{
		ID:          "res-1",
		UserID:      "user-1",
		SiteID:      "A1",
		Range:       dr,
		FamilyCount: 1,
		Price:       pricing.Breakdown{Nights: 2, Base: 140000, Total: 140000},
		CreatedAt:   time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return res
}

func TestNewStartsPendingAndRecordsEvent(t *testing.T) {
	res := newReservation(t)

	assert.Equal(t, reservation.StatusPending, res.Status)
	events := res.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "reservation.requested", events[0].EventName())
	assert.Equal(t, "res-1", events[0].AggregateID())
}

func TestNewValidatesInput(t *testing.T) {
	dr, err := daterange.Parse("2025-07-18", "2025-07-20")
	require.NoError(t, err)

	_, err = reservation.New(reservation.CreateParams{ID: "r", UserID: " ", SiteID: "A1", Range: dr, FamilyCount: 1})
	assert.ErrorIs(t, err, reservation.ErrUserRequired)

	_, err = reservation.New(reservation.CreateParams{ID: "r", UserID: "u", SiteID: "A1", Range: dr, FamilyCount: 0})
	assert.ErrorIs(t, err, reservation.ErrFamilyRequired)

	_, err = reservation.New(reservation.CreateParams{ID: "r", UserID: "u", SiteID: "A1", Range: dr, FamilyCount: 1, VisitorCount: -1})
	assert.ErrorIs(t, err, reservation.ErrInvalidOccupants)
}

func TestLifecycleHappyPath(t *testing.T) {
	res := newReservation(t)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, res.ConfirmDeposit(now))
	assert.Equal(t, reservation.StatusConfirmed, res.Status)

	after := time.Date(2025, 7, 20, 11, 0, 0, 0, time.UTC)
	require.NoError(t, res.Complete(after))
	assert.Equal(t, reservation.StatusCompleted, res.Status)
}

func TestCompleteRequiresCheckoutPassed(t *testing.T) {
	res := newReservation(t)
	require.NoError(t, res.ConfirmDeposit(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)))

	err := res.Complete(time.Date(2025, 7, 19, 23, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, reservation.ErrStayNotOver)
	assert.Equal(t, reservation.StatusConfirmed, res.Status)
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	now := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)

	pending := newReservation(t)
	require.NoError(t, pending.Cancel("deposit timeout", now))
	assert.Equal(t, reservation.StatusCancelled, pending.Status)
	assert.Equal(t, "deposit timeout", pending.CancelReason)

	confirmed := newReservation(t)
	require.NoError(t, confirmed.ConfirmDeposit(now))
	require.NoError(t, confirmed.Cancel("admin", now))
	assert.Equal(t, reservation.StatusCancelled, confirmed.Status)
}

func TestRefundFlow(t *testing.T) {
	res := newReservation(t)
	now := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, res.ConfirmDeposit(now))

	details := reservation.RefundDetails{Bank: "KB", Account: "1234", Holder: "Kim", RatePercent: 100, Amount: 140000}
	require.NoError(t, res.RequestRefund(details, "plans changed", now))
	assert.Equal(t, reservation.StatusRefundPending, res.Status)
	assert.Equal(t, details, res.Refund)

	require.NoError(t, res.CompleteRefund(now.Add(time.Hour)))
	assert.Equal(t, reservation.StatusRefunded, res.Status)
}

func TestRefundRequiresConfirmed(t *testing.T) {
	res := newReservation(t)
	err := res.RequestRefund(reservation.RefundDetails{}, "nope", time.Now())
	assert.ErrorIs(t, err, reservation.ErrInvalidState)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	now := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	res := newReservation(t)
	require.NoError(t, res.Cancel("done", now))

	assert.ErrorIs(t, res.ConfirmDeposit(now), reservation.ErrInvalidState)
	assert.ErrorIs(t, res.Cancel("again", now), reservation.ErrInvalidState)
	assert.ErrorIs(t, res.Complete(now), reservation.ErrInvalidState)
	assert.ErrorIs(t, res.RequestRefund(reservation.RefundDetails{}, "", now), reservation.ErrInvalidState)
	assert.ErrorIs(t, res.CompleteRefund(now), reservation.ErrInvalidState)
	assert.ErrorIs(t, res.ApplyModification(reservation.Modification{}, now), reservation.ErrInvalidState)
}

func TestStatusOccupying(t *testing.T) {
	assert.True(t, reservation.StatusPending.Occupying())
	assert.True(t, reservation.StatusConfirmed.Occupying())
	assert.True(t, reservation.StatusCompleted.Occupying())
	assert.False(t, reservation.StatusCancelled.Occupying())
	assert.False(t, reservation.StatusRefundPending.Occupying())
	assert.False(t, reservation.StatusRefunded.Occupying())
}

func TestApplyModificationSwapsSlotAndPrice(t *testing.T) {
	res := newReservation(t)
	now := time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC)
	newRange, err := daterange.Parse("2025-07-21", "2025-07-23")
	require.NoError(t, err)

	res.ClearEvents()
	require.NoError(t, res.ApplyModification(reservation.Modification{
		SiteID:       "B1",
		Range:        newRange,
		FamilyCount:  2,
		VisitorCount: 1,
		Price:        pricing.Breakdown{Nights: 2, Base: 80000, Total: 100000},
	}, now))

	assert.Equal(t, reservation.StatusPending, res.Status, "modification keeps the status")
	assert.EqualValues(t, "B1", res.SiteID)
	assert.Equal(t, int64(100000), res.Price.Total)

	events := res.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "reservation.modified", events[0].EventName())
}
