package admin

import (
	"context"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainreservation "campsite/internal/domain/reservation"
)

const confirmDepositKey = "admin.confirm_deposit"

type ConfirmDepositCommand struct {
	ReservationID string
}

func (c ConfirmDepositCommand) Key() string { return confirmDepositKey }

type ConfirmDepositResult struct {
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"`
}

// ConfirmDepositHandler records that the manual bank transfer arrived,
// moving the reservation from PENDING to CONFIRMED.
type ConfirmDepositHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ConfirmDepositHandler) Handle(ctx context.Context, cmd ConfirmDepositCommand) (*ConfirmDepositResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	res, err := unit.Reservations().ByID(ctx, domainreservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	if err := res.ConfirmDeposit(nowOrDefault(h.Now)); err != nil {
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
	return &ConfirmDepositResult{ReservationID: string(res.ID), Status: string(res.Status)}, nil
}

var _ commands.Handler[ConfirmDepositCommand, *ConfirmDepositResult] = (*ConfirmDepositHandler)(nil)
