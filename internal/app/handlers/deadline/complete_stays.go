package deadline

import (
	"context"
	"log/slog"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/uow"
	domainreservation "campsite/internal/domain/reservation"
)

const completeStaysKey = "deadline.complete_stays"

type CompleteStaysCommand struct{}

func (c CompleteStaysCommand) Key() string { return completeStaysKey }

type CompleteStaysResult struct {
	Completed []string `json:"completed"`
}

// CompleteStaysHandler closes out confirmed reservations whose checkout date
// has passed. Runs on the same ticker as the deadline sweep.
type CompleteStaysHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *CompleteStaysHandler) Handle(ctx context.Context, _ CompleteStaysCommand) (*CompleteStaysResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	confirmed, err := unit.Reservations().ListByStatus(ctx, domainreservation.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	result := &CompleteStaysResult{}
	for _, res := range confirmed {
		if err := res.Complete(now); err != nil {
			continue
		}
		if err := unit.Reservations().Save(ctx, res); err != nil {
			h.logger().WarnContext(ctx, "stay completion: save failed",
				slog.String("reservation_id", string(res.ID)), slog.Any("error", err))
			continue
		}
		pendingEvents := res.PendingEvents()
		res.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), pendingEvents); err != nil {
			return nil, err
		}
		result.Completed = append(result.Completed, string(res.ID))
	}

	if err := unit.Complete(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *CompleteStaysHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[CompleteStaysCommand, *CompleteStaysResult] = (*CompleteStaysHandler)(nil)
