package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainavailability "campsite/internal/domain/availability"
	domainblock "campsite/internal/domain/block"
	domainpricing "campsite/internal/domain/pricing"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
	"campsite/internal/infra/storage/memory"
)

func testStore() *memory.Store {
	return memory.NewStore([]*domainsite.Site{
		{ID: "A1", Name: "Riverside A1", Type: "deck", MaxOccupancy: 6},
		{ID: "A2", Name: "Riverside A2", Type: "deck", MaxOccupancy: 6},
	})
}

func makeReservation(t *testing.T, id, siteID, in, out string) *domainreservation.Reservation {
	t.Helper()
	rng, err := daterange.Parse(in, out)
	require.NoError(t, err)
	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:          domainreservation.ReservationID(id),
		UserID:      "user-1",
		SiteID:      domainsite.SiteID(siteID),
		Range:       rng,
		FamilyCount: 1,
		Price:       domainpricing.Breakdown{Total: 140000},
		CreatedAt:   time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	res.ClearEvents()
	return res
}

func makeBlock(t *testing.T, id, siteID, in, out string) *domainblock.Block {
	t.Helper()
	rng, err := daterange.Parse(in, out)
	require.NoError(t, err)
	blk, err := domainblock.New(domainblock.CreateParams{
		ID:        domainblock.BlockID(id),
		SiteID:    domainsite.SiteID(siteID),
		Range:     rng,
		CreatedAt: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	blk.ClearEvents()
	return blk
}

func TestInsertRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)

	require.NoError(t, repo.Insert(ctx, makeReservation(t, "r1", "A1", "2025-07-18", "2025-07-20")))

	err := repo.Insert(ctx, makeReservation(t, "r2", "A1", "2025-07-19", "2025-07-21"))
	assert.ErrorIs(t, err, domainavailability.ErrDateConflict)

	// Same dates on another site are fine.
	assert.NoError(t, repo.Insert(ctx, makeReservation(t, "r3", "A2", "2025-07-19", "2025-07-21")))
	// Back to back on the same site is fine.
	assert.NoError(t, repo.Insert(ctx, makeReservation(t, "r4", "A1", "2025-07-20", "2025-07-22")))
}

func TestConcurrentInsertAdmitsExactlyOne(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)

	const writers = 32
	contenders := make([]*domainreservation.Reservation, writers)
	for i := range contenders {
		contenders[i] = makeReservation(t, fmt.Sprintf("r%d", i), "A1", "2025-07-18", "2025-07-20")
	}

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Insert(ctx, contenders[i])
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, domainavailability.ErrDateConflict)
		}
	}
	assert.Equal(t, 1, won, "exactly one racing writer may claim the range")
}

func TestReleaseFreesTheRange(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)

	res := makeReservation(t, "r1", "A1", "2025-07-18", "2025-07-20")
	require.NoError(t, repo.Insert(ctx, res))
	require.NoError(t, res.Cancel("timeout", time.Now()))
	res.ClearEvents()
	require.NoError(t, repo.Release(ctx, res))

	assert.NoError(t, repo.Insert(ctx, makeReservation(t, "r2", "A1", "2025-07-18", "2025-07-20")))
}

func TestMoveAtomicallySwapsSlots(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)

	res := makeReservation(t, "r1", "A1", "2025-07-18", "2025-07-20")
	require.NoError(t, repo.Insert(ctx, res))
	require.NoError(t, repo.Insert(ctx, makeReservation(t, "r2", "A1", "2025-07-22", "2025-07-24")))

	prevSite, prevRange := res.SiteID, res.Range
	blocked, err := daterange.Parse("2025-07-22", "2025-07-24")
	require.NoError(t, err)
	res.SiteID, res.Range = "A1", blocked
	assert.ErrorIs(t, repo.Move(ctx, res, prevSite, prevRange), domainavailability.ErrDateConflict)

	free, err := daterange.Parse("2025-07-25", "2025-07-27")
	require.NoError(t, err)
	res.Range = free
	require.NoError(t, repo.Move(ctx, res, prevSite, prevRange))

	// The original slot is free again.
	assert.NoError(t, repo.Insert(ctx, makeReservation(t, "r3", "A1", "2025-07-18", "2025-07-20")))
}

func TestMoveExcludesItselfFromTheScan(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)

	res := makeReservation(t, "r1", "A1", "2025-07-18", "2025-07-20")
	require.NoError(t, repo.Insert(ctx, res))

	prevSite, prevRange := res.SiteID, res.Range
	extended, err := daterange.Parse("2025-07-18", "2025-07-21")
	require.NoError(t, err)
	res.Range = extended
	assert.NoError(t, repo.Move(ctx, res, prevSite, prevRange))
}

func TestSaveDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)

	res := makeReservation(t, "r1", "A1", "2025-07-18", "2025-07-20")
	require.NoError(t, repo.Insert(ctx, res))

	stale, err := repo.ByID(ctx, res.ID)
	require.NoError(t, err)

	require.NoError(t, res.ConfirmDeposit(time.Now()))
	res.ClearEvents()
	require.NoError(t, repo.Save(ctx, res))

	require.NoError(t, stale.ConfirmDeposit(time.Now()))
	stale.ClearEvents()
	assert.ErrorIs(t, repo.Save(ctx, stale), domainreservation.ErrVersionConflict)
}

func TestWildcardBlockConflictsEverywhere(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	reservations := memory.NewReservationRepo(store)
	blocks := memory.NewBlockRepo(store)

	require.NoError(t, blocks.Insert(ctx, makeBlock(t, "b1", "ALL", "2025-08-01", "2025-08-03")))

	err := reservations.Insert(ctx, makeReservation(t, "r1", "A1", "2025-08-02", "2025-08-04"))
	assert.ErrorIs(t, err, domainavailability.ErrDateConflict)
	err = reservations.Insert(ctx, makeReservation(t, "r2", "A2", "2025-08-01", "2025-08-02"))
	assert.ErrorIs(t, err, domainavailability.ErrDateConflict)
}

func TestWildcardBlockRejectedWhenAnySiteBusy(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	reservations := memory.NewReservationRepo(store)
	blocks := memory.NewBlockRepo(store)

	require.NoError(t, reservations.Insert(ctx, makeReservation(t, "r1", "A2", "2025-08-02", "2025-08-04")))

	err := blocks.Insert(ctx, makeBlock(t, "b1", "ALL", "2025-08-01", "2025-08-03"))
	assert.ErrorIs(t, err, domainavailability.ErrDateConflict)
}

func TestBlockDeleteFreesTheRange(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	reservations := memory.NewReservationRepo(store)
	blocks := memory.NewBlockRepo(store)

	require.NoError(t, blocks.Insert(ctx, makeBlock(t, "b1", "A1", "2025-08-01", "2025-08-03")))
	require.NoError(t, blocks.Delete(ctx, "b1"))

	assert.NoError(t, reservations.Insert(ctx, makeReservation(t, "r1", "A1", "2025-08-01", "2025-08-03")))
	assert.ErrorIs(t, blocks.Delete(ctx, "b1"), domainblock.ErrBlockNotFound)
}

func TestOccupancyScansReflectStatus(t *testing.T) {
	ctx := context.Background()
	store := testStore()
	repo := memory.NewReservationRepo(store)
	blocks := memory.NewBlockRepo(store)

	res := makeReservation(t, "r1", "A1", "2025-07-18", "2025-07-20")
	require.NoError(t, repo.Insert(ctx, res))

	index := domainavailability.Index{Reservations: repo, Blocks: blocks}
	occs, err := index.Occupancies(ctx, "A1")
	require.NoError(t, err)
	assert.Len(t, occs, 1)

	require.NoError(t, res.Cancel("timeout", time.Now()))
	res.ClearEvents()
	require.NoError(t, repo.Release(ctx, res))

	occs, err = index.Occupancies(ctx, "A1")
	require.NoError(t, err)
	assert.Empty(t, occs, "cancelled reservations stop occupying")
}
