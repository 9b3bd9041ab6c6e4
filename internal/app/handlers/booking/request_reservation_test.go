package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/app/handlers/booking"
	domainavailability "campsite/internal/domain/availability"
	domainpolicy "campsite/internal/domain/policy"
	domainpricing "campsite/internal/domain/pricing"
	domainreservation "campsite/internal/domain/reservation"
	domainsite "campsite/internal/domain/site"
	infrapricing "campsite/internal/infra/pricing"
	"campsite/internal/infra/storage/memory"
)

type bookingFixture struct {
	store   *memory.Store
	handler *booking.RequestReservationHandler
}

func newBookingFixture(t *testing.T, now time.Time) *bookingFixture {
	t.Helper()
	store := memory.NewStore([]*domainsite.Site{
		{ID: "A1", Name: "Riverside A1", Type: "deck", MaxOccupancy: 6},
		{ID: "C1", Name: "Glamping C1", Type: "glamping", BasePrice: 60000, MaxOccupancy: 4},
	})
	engine, err := infrapricing.NewStaticEngine(infrapricing.Options{
		Config: domainpricing.DefaultConfig(),
		Policy: domainpolicy.Default(),
		OpenRule: domainpolicy.OpenDayRule{
			OpenAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			CloseAt: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	return &bookingFixture{
		store: store,
		handler: &booking.RequestReservationHandler{
			UoWFactory: memory.Factory{Store: store},
			Pricing:    engine,
			Policy:     engine,
			Outbox:     memory.NewOutbox(),
			Now:        func() time.Time { return now },
		},
	}
}

func command(id, siteID, in, out string) booking.RequestReservationCommand {
	return booking.RequestReservationCommand{
		CommandID:   id,
		UserID:      "user-1",
		SiteID:      siteID,
		CheckIn:     in,
		CheckOut:    out,
		FamilyCount: 1,
	}
}

// Monday, well before the summer season.
var bookingNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestRequestReservationCreatesPending(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	result, err := fx.handler.Handle(ctx, command("cmd-1", "A1", "2025-06-09", "2025-06-11"))
	require.NoError(t, err)
	assert.Equal(t, "cmd-1", result.ReservationID)
	assert.Equal(t, int64(80000), result.TotalPrice, "two weekday nights at the shared rate")

	res, err := memory.NewReservationRepo(fx.store).ByID(ctx, "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusPending, res.Status)
	assert.Equal(t, "user-1", res.UserID)
}

func TestRequestReservationRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	_, err := fx.handler.Handle(ctx, command("cmd-1", "A1", "2025-06-09", "2025-06-12"))
	require.NoError(t, err)

	_, err = fx.handler.Handle(ctx, command("cmd-2", "A1", "2025-06-11", "2025-06-13"))
	assert.ErrorIs(t, err, domainavailability.ErrDateConflict)

	// The pending hold does not spill over to other sites.
	_, err = fx.handler.Handle(ctx, command("cmd-3", "C1", "2025-06-11", "2025-06-13"))
	assert.NoError(t, err)
}

func TestRequestReservationSitePriceOverride(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	result, err := fx.handler.Handle(ctx, command("cmd-1", "C1", "2025-06-09", "2025-06-11"))
	require.NoError(t, err)
	assert.Equal(t, int64(120000), result.TotalPrice, "glamping base price replaces the weekday rate")
}

func TestRequestReservationGuestFallback(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	cmd := command("cmd-1", "A1", "2025-06-09", "2025-06-11")
	cmd.UserID = "  "
	_, err := fx.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	res, err := memory.NewReservationRepo(fx.store).ByID(ctx, "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.GuestUser, res.UserID)
}

func TestRequestReservationUnknownSite(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	_, err := fx.handler.Handle(ctx, command("cmd-1", "Z9", "2025-06-09", "2025-06-11"))
	assert.ErrorIs(t, err, domainsite.ErrSiteNotFound)
}

func TestRequestReservationPastCheckIn(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	_, err := fx.handler.Handle(ctx, command("cmd-1", "A1", "2025-06-01", "2025-06-03"))
	assert.ErrorIs(t, err, booking.ErrCheckInInPast)
}

func TestRequestReservationOutsideWindow(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	_, err := fx.handler.Handle(ctx, command("cmd-1", "A1", "2026-01-05", "2026-01-07"))
	assert.ErrorIs(t, err, domainpolicy.ErrOutsideBookingWindow)
}

func TestRequestReservationMinStayEnforced(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t, bookingNow)

	// Friday three weeks out, a single night.
	_, err := fx.handler.Handle(ctx, command("cmd-1", "A1", "2025-06-27", "2025-06-28"))
	var verr *booking.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRequestReservationCommandValidate(t *testing.T) {
	cmd := command("cmd-1", "", "2025-06-09", "2025-06-11")
	assert.Error(t, cmd.Validate())

	cmd = command("cmd-1", "A1", "2025-06-09", "2025-06-11")
	cmd.FamilyCount = 0
	assert.Error(t, cmd.Validate())

	cmd = command("cmd-1", "A1", "2025-06-11", "2025-06-09")
	assert.Error(t, cmd.Validate())

	assert.NoError(t, command("cmd-1", "A1", "2025-06-09", "2025-06-11").Validate())
}
