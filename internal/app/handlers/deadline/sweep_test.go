package deadline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/app/handlers/deadline"
	domainpolicy "campsite/internal/domain/policy"
	domainpricing "campsite/internal/domain/pricing"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
	infrapricing "campsite/internal/infra/pricing"
	"campsite/internal/infra/storage/memory"
)

// The sweep runs the morning of June 3rd, after the 09:00 grace boundary.
var sweepNow = time.Date(2025, 6, 3, 9, 30, 0, 0, time.UTC)

type sweepFixture struct {
	store  *memory.Store
	repo   *memory.ReservationRepo
	engine *infrapricing.StaticEngine
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	store := memory.NewStore([]*domainsite.Site{
		{ID: "A1", Name: "Riverside A1", Type: "deck", MaxOccupancy: 6},
		{ID: "A2", Name: "Riverside A2", Type: "deck", MaxOccupancy: 6},
		{ID: "B1", Name: "Forest B1", Type: "deck", MaxOccupancy: 6},
	})
	engine, err := infrapricing.NewStaticEngine(infrapricing.Options{
		Config: domainpricing.DefaultConfig(),
		Policy: domainpolicy.Default(),
	})
	require.NoError(t, err)
	return &sweepFixture{store: store, repo: memory.NewReservationRepo(store), engine: engine}
}

func (fx *sweepFixture) seed(t *testing.T, id, siteID, in, out string, createdAt time.Time) *domainreservation.Reservation {
	t.Helper()
	rng, err := daterange.Parse(in, out)
	require.NoError(t, err)
	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:          domainreservation.ReservationID(id),
		UserID:      "user-1",
		SiteID:      domainsite.SiteID(siteID),
		Range:       rng,
		FamilyCount: 1,
		Price:       domainpricing.Breakdown{Total: 80000},
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	res.ClearEvents()
	require.NoError(t, fx.repo.Insert(context.Background(), res))
	return res
}

func (fx *sweepFixture) seedConfirmed(t *testing.T, id, siteID, in, out string, createdAt time.Time) *domainreservation.Reservation {
	t.Helper()
	res := fx.seed(t, id, siteID, in, out, createdAt)
	require.NoError(t, res.ConfirmDeposit(createdAt.Add(time.Hour)))
	res.ClearEvents()
	require.NoError(t, fx.repo.Save(context.Background(), res))
	return res
}

func (fx *sweepFixture) sweeper() *deadline.SweepDeadlinesHandler {
	return &deadline.SweepDeadlinesHandler{
		UoWFactory: memory.Factory{Store: fx.store},
		Policy:     fx.engine,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return sweepNow },
	}
}

func TestSweepCancelsOverdueOnly(t *testing.T) {
	ctx := context.Background()
	fx := newSweepFixture(t)

	// Created 23:00 June 2nd: deadline 05:00, grace until 09:00. Overdue.
	fx.seed(t, "overdue", "A1", "2025-06-20", "2025-06-22", time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))
	// Created 03:00 June 3rd: deadline 09:00, grace until 18:00. Still in grace.
	fx.seed(t, "warning", "A2", "2025-06-20", "2025-06-22", time.Date(2025, 6, 3, 3, 0, 0, 0, time.UTC))
	// Deposit already confirmed; the sweep never touches it.
	fx.seedConfirmed(t, "paid", "B1", "2025-06-20", "2025-06-22", time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))

	result, err := fx.sweeper().Handle(ctx, deadline.SweepDeadlinesCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue"}, result.Cancelled)
	assert.Zero(t, result.Skipped)

	cancelled, err := fx.repo.ByID(ctx, "overdue")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusCancelled, cancelled.Status)
	assert.Equal(t, deadline.AutoCancelReason, cancelled.CancelReason)

	kept, err := fx.repo.ByID(ctx, "warning")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusPending, kept.Status)

	paid, err := fx.repo.ByID(ctx, "paid")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusConfirmed, paid.Status)

	// The cancelled range is back on sale.
	fx.seed(t, "rebook", "A1", "2025-06-20", "2025-06-22", sweepNow)
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := newSweepFixture(t)
	fx.seed(t, "overdue", "A1", "2025-06-20", "2025-06-22", time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))

	sweeper := fx.sweeper()
	first, err := sweeper.Handle(ctx, deadline.SweepDeadlinesCommand{})
	require.NoError(t, err)
	assert.Len(t, first.Cancelled, 1)

	second, err := sweeper.Handle(ctx, deadline.SweepDeadlinesCommand{})
	require.NoError(t, err)
	assert.Empty(t, second.Cancelled)
	assert.Zero(t, second.Skipped)
}

func TestListDeadlinesReport(t *testing.T) {
	ctx := context.Background()
	fx := newSweepFixture(t)
	fx.seed(t, "overdue", "A1", "2025-06-20", "2025-06-22", time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))
	fx.seed(t, "warning", "A2", "2025-06-20", "2025-06-22", time.Date(2025, 6, 3, 3, 0, 0, 0, time.UTC))
	// Created 04:00 June 3rd: deadline 10:00, still ahead of the clock.
	fx.seed(t, "fresh", "B1", "2025-06-20", "2025-06-22", time.Date(2025, 6, 3, 4, 0, 0, 0, time.UTC))

	handler := &deadline.ListDeadlinesHandler{
		UoWFactory: memory.Factory{Store: fx.store},
		Policy:     fx.engine,
		Now:        func() time.Time { return sweepNow },
	}

	result, err := handler.Handle(ctx, deadline.ListDeadlinesQuery{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2, "default report covers WARNING and OVERDUE")
	seen := map[string]string{}
	for _, e := range result.Entries {
		seen[e.Reservation.ID] = e.Status
	}
	assert.Equal(t, string(domainreservation.DeadlineOverdue), seen["overdue"])
	assert.Equal(t, string(domainreservation.DeadlineWarning), seen["warning"])

	onTime, err := handler.Handle(ctx, deadline.ListDeadlinesQuery{
		Statuses: []domainreservation.DeadlineStatus{domainreservation.DeadlineOnTime},
	})
	require.NoError(t, err)
	require.Len(t, onTime.Entries, 1)
	assert.Equal(t, "fresh", onTime.Entries[0].Reservation.ID)
}

func TestCompleteStaysClosesPastCheckouts(t *testing.T) {
	ctx := context.Background()
	fx := newSweepFixture(t)
	created := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	fx.seedConfirmed(t, "done", "A1", "2025-06-01", "2025-06-02", created)
	fx.seedConfirmed(t, "upcoming", "A2", "2025-06-10", "2025-06-12", created)

	handler := &deadline.CompleteStaysHandler{
		UoWFactory: memory.Factory{Store: fx.store},
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return sweepNow },
	}

	result, err := handler.Handle(ctx, deadline.CompleteStaysCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, result.Completed)

	done, err := fx.repo.ByID(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusCompleted, done.Status)

	upcoming, err := fx.repo.ByID(ctx, "upcoming")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusConfirmed, upcoming.Status)
}
