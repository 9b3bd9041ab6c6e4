package admin

import (
	"context"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainreservation "campsite/internal/domain/reservation"
)

const cancelReservationKey = "admin.cancel_reservation"

type CancelReservationCommand struct {
	ReservationID string
	Reason        string
}

func (c CancelReservationCommand) Key() string { return cancelReservationKey }

type CancelReservationResult struct {
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"`
}

// CancelReservationHandler is the administrative cancel for pending or
// confirmed reservations (no-show phone cancellations, operational moves).
// The freed range is broadcast to the waitlist.
type CancelReservationHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CancelReservationHandler) Handle(ctx context.Context, cmd CancelReservationCommand) (*CancelReservationResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	res, err := unit.Reservations().ByID(ctx, domainreservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	if err := res.Cancel(cmd.Reason, now); err != nil {
		return nil, err
	}
	res.Record(domainavailability.DateRangeFreed{SiteID: res.SiteID, Range: res.Range, At: now})

	if err := unit.Reservations().Release(ctx, res); err != nil {
		return nil, err
	}

	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), pending); err != nil {
		return nil, err
	}

	if err := unit.Complete(ctx); err != nil {
		return nil, err
	}
	return &CancelReservationResult{ReservationID: string(res.ID), Status: string(res.Status)}, nil
}

var _ commands.Handler[CancelReservationCommand, *CancelReservationResult] = (*CancelReservationHandler)(nil)
