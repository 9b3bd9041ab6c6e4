package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campsite/internal/app/uow"
	domainblock "campsite/internal/domain/block"
	domainreservation "campsite/internal/domain/reservation"
	domainsite "campsite/internal/domain/site"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface. The
// site catalogue is configuration data and lives outside the database, so the
// factory takes the repository serving it.
type Factory struct {
	DB    *mongo.Database
	Sites domainsite.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil || f.Sites == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:      session,
		sites:        f.Sites,
		reservations: NewReservationRepository(f.DB),
		blocks:       NewBlockRepository(f.DB, f.Sites),
	}, nil
}

type Unit struct {
	session mongo.Session

	sites        domainsite.Repository
	reservations *ReservationRepository
	blocks       *BlockRepository
}

func (u *Unit) Sites() domainsite.Repository               { return u.sites }
func (u *Unit) Reservations() domainreservation.Repository { return u.reservations }
func (u *Unit) Blocks() domainblock.Repository             { return u.blocks }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session available to downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
