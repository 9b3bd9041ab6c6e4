package memory

import (
	"context"
	"errors"

	"campsite/internal/app/uow"
	domainblock "campsite/internal/domain/block"
	domainreservation "campsite/internal/domain/reservation"
	domainsite "campsite/internal/domain/site"
)

// ErrFactoryMisconfigured indicates a factory built without a store.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory hands out unit-of-work views over a single shared store. The store's
// mutex provides the write-time atomicity; Commit and Rollback are bookkeeping
// only, matching the port so in-memory and Mongo deployments wire identically.
type Factory struct {
	Store *Store
}

func (f Factory) Begin(_ context.Context, _ uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		sites:        NewSiteRepo(f.Store),
		reservations: NewReservationRepo(f.Store),
		blocks:       NewBlockRepo(f.Store),
	}, nil
}

type Unit struct {
	sites        *SiteRepo
	reservations *ReservationRepo
	blocks       *BlockRepo
}

func (u *Unit) Sites() domainsite.Repository               { return u.sites }
func (u *Unit) Reservations() domainreservation.Repository { return u.reservations }
func (u *Unit) Blocks() domainblock.Repository             { return u.blocks }
func (u *Unit) Commit(context.Context) error               { return nil }
func (u *Unit) Rollback(context.Context) error             { return nil }

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
