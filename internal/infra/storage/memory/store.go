package memory

import (
	"sync"

	domainblock "campsite/internal/domain/block"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/shared/events"
	domainsite "campsite/internal/domain/site"
)

// Store is the single-process persistence backend. One mutex guards sites,
// reservations and blocks together, which makes the overlap re-check inside
// Insert/Move/Release atomic: two racing writers serialize here and the loser
// gets ErrDateConflict.
type Store struct {
	mu           sync.RWMutex
	sites        map[domainsite.SiteID]*domainsite.Site
	siteOrder    []domainsite.SiteID
	reservations map[domainreservation.ReservationID]*domainreservation.Reservation
	blocks       map[domainblock.BlockID]*domainblock.Block
}

func NewStore(sites []*domainsite.Site) *Store {
	s := &Store{
		sites:        make(map[domainsite.SiteID]*domainsite.Site, len(sites)),
		reservations: make(map[domainreservation.ReservationID]*domainreservation.Reservation),
		blocks:       make(map[domainblock.BlockID]*domainblock.Block),
	}
	for _, st := range sites {
		copied := *st
		s.sites[st.ID] = &copied
		s.siteOrder = append(s.siteOrder, st.ID)
	}
	return s
}

// conflicts scans every occupancy touching the site. A wildcard target
// collides with anything anywhere; a concrete target collides with its own
// reservations plus concrete and wildcard blocks covering it. Callers hold
// s.mu.
func (s *Store) conflicts(id domainsite.SiteID, rng daterange.DateRange, excludeRef string) bool {
	wildcard := id == domainblock.WildcardSite
	for _, r := range s.reservations {
		if string(r.ID) == excludeRef || !r.Status.Occupying() {
			continue
		}
		if !wildcard && r.SiteID != id {
			continue
		}
		if r.Range.Overlaps(rng) {
			return true
		}
	}
	for _, b := range s.blocks {
		if string(b.ID) == excludeRef {
			continue
		}
		if !wildcard && !b.AppliesTo(id) {
			continue
		}
		if b.Range.Overlaps(rng) {
			return true
		}
	}
	return false
}

func cloneReservation(r *domainreservation.Reservation) *domainreservation.Reservation {
	copied := *r
	copied.EventRecorder = events.EventRecorder{}
	return &copied
}

func cloneBlock(b *domainblock.Block) *domainblock.Block {
	copied := *b
	copied.EventRecorder = events.EventRecorder{}
	return &copied
}
