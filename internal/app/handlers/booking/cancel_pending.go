package booking

import (
	"context"
	"errors"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainreservation "campsite/internal/domain/reservation"
)

const cancelPendingKey = "reservation.cancel_pending"

// ErrNotOwner rejects a cancellation attempt by a different user.
var ErrNotOwner = errors.New("booking: reservation belongs to another user")

type CancelPendingCommand struct {
	ReservationID string
	UserID        string
	Reason        string
}

func (c CancelPendingCommand) Key() string { return cancelPendingKey }

type CancelPendingResult struct {
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"`
}

// CancelPendingHandler lets a guest withdraw a reservation that is still
// awaiting its deposit. Confirmed reservations go through the refund flow
// instead.
type CancelPendingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CancelPendingHandler) Handle(ctx context.Context, cmd CancelPendingCommand) (*CancelPendingResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	res, err := unit.Reservations().ByID(ctx, domainreservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	if cmd.UserID != "" && res.UserID != cmd.UserID {
		return nil, ErrNotOwner
	}
	if res.Status != domainreservation.StatusPending {
		return nil, domainreservation.ErrInvalidState
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
	return &CancelPendingResult{ReservationID: string(res.ID), Status: string(res.Status)}, nil
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

func encoderOrDefault(enc outbox.EventEncoder) outbox.EventEncoder {
	if enc != nil {
		return enc
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CancelPendingCommand, *CancelPendingResult] = (*CancelPendingHandler)(nil)
