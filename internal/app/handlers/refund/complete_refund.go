package refund

import (
	"context"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainreservation "campsite/internal/domain/reservation"
)

const completeRefundKey = "refund.complete"

type CompleteRefundCommand struct {
	ReservationID string
}

func (c CompleteRefundCommand) Key() string { return completeRefundKey }

type CompleteRefundResult struct {
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"`
	RefundAmount  int64  `json:"refundAmount"`
}

// CompleteRefundHandler records that the admin wired the payout. The slot was
// already released when the refund was requested, so this is a plain state
// update.
type CompleteRefundHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CompleteRefundHandler) Handle(ctx context.Context, cmd CompleteRefundCommand) (*CompleteRefundResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	res, err := unit.Reservations().ByID(ctx, domainreservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	if err := res.CompleteRefund(nowOrDefault(h.Now)); err != nil {
		return nil, err
	}
	if err := unit.Reservations().Save(ctx, res); err != nil {
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
	return &CompleteRefundResult{
		ReservationID: string(res.ID),
		Status:        string(res.Status),
		RefundAmount:  res.Refund.Amount,
	}, nil
}

var _ commands.Handler[CompleteRefundCommand, *CompleteRefundResult] = (*CompleteRefundHandler)(nil)
