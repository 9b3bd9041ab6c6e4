package booking

import (
	"context"

	"campsite/internal/app/dto"
	"campsite/internal/app/queries"
	"campsite/internal/app/uow"
)

const listMyReservationsKey = "reservation.list_my"

type ListMyReservationsQuery struct {
	UserID string
}

func (q ListMyReservationsQuery) Key() string { return listMyReservationsKey }

// ListMyReservationsHandler re-fetches the caller's reservations wholesale
// from the authoritative store; clients treat local copies as a cache.
type ListMyReservationsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListMyReservationsHandler) Handle(ctx context.Context, q ListMyReservationsQuery) ([]dto.Reservation, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	items, err := unit.Reservations().ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return dto.MapReservations(items), nil
}

var _ queries.Handler[ListMyReservationsQuery, []dto.Reservation] = (*ListMyReservationsHandler)(nil)
