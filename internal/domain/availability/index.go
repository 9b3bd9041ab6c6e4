package availability

import (
	"context"
	"errors"
	"time"

	"campsite/internal/domain/block"
	"campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/site"
)

// ErrDateConflict is the structured conflict result of the overlap invariant:
// the caller lost the range to somebody else and retrying the same dates
// cannot succeed.
var ErrDateConflict = errors.New("availability: date range conflicts with existing occupancy")

// Occupancy is one taken interval on a site: a non-cancelled reservation or an
// administrative block.
type Occupancy struct {
	Reference string
	SiteID    site.SiteID
	Range     daterange.DateRange
}

// Index answers availability questions by scanning current occupancies. It is
// a fast-reject optimization for callers; the persistence boundary re-verifies
// the same invariant atomically at write time and stays the sole authority
// under concurrency.
type Index struct {
	Reservations reservation.Repository
	Blocks       block.Repository
}

// Occupancies collects the taken intervals on a site, wildcard blocks
// included.
func (ix Index) Occupancies(ctx context.Context, id site.SiteID) ([]Occupancy, error) {
	reservations, err := ix.Reservations.ListBySite(ctx, id)
	if err != nil {
		return nil, err
	}
	blocks, err := ix.Blocks.ForSite(ctx, id)
	if err != nil {
		return nil, err
	}
	occs := make([]Occupancy, 0, len(reservations)+len(blocks))
	for _, r := range reservations {
		if !r.Status.Occupying() {
			continue
		}
		occs = append(occs, Occupancy{Reference: string(r.ID), SiteID: r.SiteID, Range: r.Range})
	}
	for _, b := range blocks {
		occs = append(occs, Occupancy{Reference: string(b.ID), SiteID: b.SiteID, Range: b.Range})
	}
	return occs, nil
}

// HasOverlap reports whether the range collides with any occupancy on the
// site. excludeRef skips the entity being modified so it does not conflict
// with itself.
func (ix Index) HasOverlap(ctx context.Context, id site.SiteID, rng daterange.DateRange, excludeRef string) (bool, error) {
	occs, err := ix.Occupancies(ctx, id)
	if err != nil {
		return false, err
	}
	return Overlaps(occs, rng, excludeRef), nil
}

// Overlaps is the pure half-open interval test over a collected set.
func Overlaps(occs []Occupancy, rng daterange.DateRange, excludeRef string) bool {
	for _, occ := range occs {
		if excludeRef != "" && occ.Reference == excludeRef {
			continue
		}
		if occ.Range.Overlaps(rng) {
			return true
		}
	}
	return false
}

// IsDateOccupied reports whether a single night is taken on the site.
func IsDateOccupied(occs []Occupancy, day time.Time) bool {
	for _, occ := range occs {
		if occ.Range.ContainsDate(day) {
			return true
		}
	}
	return false
}

// MaxBlockNights computes how many nights an administrator can block starting
// at startDate before running into the next occupancy. With a clear calendar
// the window runs through the end of startDate's month, inclusive. Advisory UI
// guidance only; enforcement happens at commit time.
func MaxBlockNights(occs []Occupancy, startDate time.Time) int {
	start := daterange.Date(startDate)
	var next time.Time
	for _, occ := range occs {
		if !occ.Range.CheckIn.After(start) {
			continue
		}
		if next.IsZero() || occ.Range.CheckIn.Before(next) {
			next = occ.Range.CheckIn
		}
	}
	if !next.IsZero() {
		return daterange.DaysBetween(start, next)
	}
	endOfMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return daterange.DaysBetween(start, endOfMonth)
}
