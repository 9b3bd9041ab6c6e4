package memory

import (
	"context"

	domainavailability "campsite/internal/domain/availability"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

// ReservationRepo persists reservations in the shared store.
type ReservationRepo struct {
	store *Store
}

func NewReservationRepo(store *Store) *ReservationRepo {
	return &ReservationRepo{store: store}
}

func (r *ReservationRepo) ByID(_ context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, domainreservation.ErrNotFound
	}
	return cloneReservation(res), nil
}

func (r *ReservationRepo) Insert(_ context.Context, res *domainreservation.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.conflicts(res.SiteID, res.Range, string(res.ID)) {
		return domainavailability.ErrDateConflict
	}
	res.Version = 1
	r.store.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepo) Save(_ context.Context, res *domainreservation.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.reservations[res.ID]
	if !ok {
		return domainreservation.ErrNotFound
	}
	if current.Version != res.Version {
		return domainreservation.ErrVersionConflict
	}
	res.Version++
	r.store.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepo) Move(_ context.Context, res *domainreservation.Reservation, _ domainsite.SiteID, _ daterange.DateRange) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.reservations[res.ID]
	if !ok {
		return domainreservation.ErrNotFound
	}
	if current.Version != res.Version {
		return domainreservation.ErrVersionConflict
	}
	// The stored copy still holds the previous slot; excluding this
	// reservation from the scan releases it and claims the new one in the
	// same critical section.
	if r.store.conflicts(res.SiteID, res.Range, string(res.ID)) {
		return domainavailability.ErrDateConflict
	}
	res.Version++
	r.store.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepo) Release(_ context.Context, res *domainreservation.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.reservations[res.ID]
	if !ok {
		return domainreservation.ErrNotFound
	}
	if current.Version != res.Version {
		return domainreservation.ErrVersionConflict
	}
	res.Version++
	r.store.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepo) ListByUser(_ context.Context, userID string) ([]*domainreservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.store.reservations {
		if res.UserID == userID {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func (r *ReservationRepo) ListBySite(_ context.Context, id domainsite.SiteID) ([]*domainreservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.store.reservations {
		if res.SiteID == id {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func (r *ReservationRepo) ListByStatus(_ context.Context, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.store.reservations {
		if res.Status == status {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func (r *ReservationRepo) ListWindow(_ context.Context, rng daterange.DateRange) ([]*domainreservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.store.reservations {
		if res.Range.Overlaps(rng) {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

var _ domainreservation.Repository = (*ReservationRepo)(nil)
