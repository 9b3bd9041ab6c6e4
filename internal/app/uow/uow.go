package uow

import (
	"context"

	domainblock "campsite/internal/domain/block"
	domainreservation "campsite/internal/domain/reservation"
	domainsite "campsite/internal/domain/site"
)

// UnitOfWork coordinates the engine's repositories inside one transaction
// boundary. The reservation and block repositories behind it carry the atomic
// overlap re-check; handlers never enforce the invariant themselves.
type UnitOfWork interface {
	Sites() domainsite.Repository
	Reservations() domainreservation.Repository
	Blocks() domainblock.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
