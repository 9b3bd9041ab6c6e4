package refund

import (
	"context"
	"errors"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/policies"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainpolicy "campsite/internal/domain/policy"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
)

const requestCancelKey = "refund.request_cancel"

var (
	// ErrNotOwner rejects a cancellation attempt by a different user.
	ErrNotOwner = errors.New("refund: reservation belongs to another user")
	// ErrAccountRequired rejects a paid cancellation without bank coordinates.
	ErrAccountRequired = errors.New("refund: refund account details required")
)

type RequestCancelCommand struct {
	ReservationID string
	UserID        string
	Reason        string
	Bank          string
	Account       string
	Holder        string
}

func (c RequestCancelCommand) Key() string { return requestCancelKey }

type RequestCancelResult struct {
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"`
	RatePercent   int    `json:"ratePercent"`
	RefundAmount  int64  `json:"refundAmount"`
}

// RequestCancelHandler cancels a deposit-paid reservation. The refund tier is
// resolved from the calendar-day distance to check-in at the moment the
// request lands; the slot is freed immediately so the dates go back on sale
// before the payout is wired.
type RequestCancelHandler struct {
	UoWFactory uow.UoWFactory
	Policy     policies.PolicyPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RequestCancelHandler) Handle(ctx context.Context, cmd RequestCancelCommand) (*RequestCancelResult, error) {
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
	if res.Status != domainreservation.StatusConfirmed {
		return nil, domainreservation.ErrInvalidState
	}

	pol, err := h.Policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	daysBefore := daterange.DaysBetween(now, res.Range.CheckIn)
	rate := pol.RefundRate(daysBefore)
	amount := domainpolicy.RefundAmount(res.Price.Total, rate)
	if amount > 0 && (cmd.Bank == "" || cmd.Account == "") {
		return nil, ErrAccountRequired
	}

	details := domainreservation.RefundDetails{
		Bank:        cmd.Bank,
		Account:     cmd.Account,
		Holder:      cmd.Holder,
		RatePercent: rate,
		Amount:      amount,
	}
	if err := res.RequestRefund(details, cmd.Reason, now); err != nil {
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
	return &RequestCancelResult{
		ReservationID: string(res.ID),
		Status:        string(res.Status),
		RatePercent:   rate,
		RefundAmount:  amount,
	}, nil
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

var _ commands.Handler[RequestCancelCommand, *RequestCancelResult] = (*RequestCancelHandler)(nil)
