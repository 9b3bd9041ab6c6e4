package deadline

import (
	"context"
	"log/slog"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
	"campsite/internal/app/policies"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainreservation "campsite/internal/domain/reservation"
)

const sweepDeadlinesKey = "deadline.sweep"

// AutoCancelReason is the cancel reason stamped by the sweep.
const AutoCancelReason = "deposit deadline passed"

type SweepDeadlinesCommand struct{}

func (c SweepDeadlinesCommand) Key() string { return sweepDeadlinesKey }

type SweepDeadlinesResult struct {
	Cancelled []string `json:"cancelled"`
	Skipped   int      `json:"skipped"`
}

// SweepDeadlinesHandler cancels pending reservations whose grace boundary has
// passed without a deposit. The sweep is idempotent: reservations already
// cancelled by a concurrent run or confirmed in between are skipped, and one
// failing reservation never aborts the rest.
type SweepDeadlinesHandler struct {
	UoWFactory uow.UoWFactory
	Policy     policies.PolicyPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *SweepDeadlinesHandler) Handle(ctx context.Context, _ SweepDeadlinesCommand) (*SweepDeadlinesResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	pol, err := h.Policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := unit.Reservations().ListByStatus(ctx, domainreservation.StatusPending)
	if err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	result := &SweepDeadlinesResult{}
	for _, res := range pending {
		if res.ClassifyDeadline(pol.DepositDeadlineHours, now) != domainreservation.DeadlineOverdue {
			continue
		}
		if err := res.Cancel(AutoCancelReason, now); err != nil {
			// Confirmed or already cancelled under our feet.
			result.Skipped++
			continue
		}
		res.Record(domainavailability.DateRangeFreed{SiteID: res.SiteID, Range: res.Range, At: now})
		if err := unit.Reservations().Release(ctx, res); err != nil {
			h.logger().WarnContext(ctx, "deadline sweep: release failed",
				slog.String("reservation_id", string(res.ID)), slog.Any("error", err))
			result.Skipped++
			continue
		}
		pendingEvents := res.PendingEvents()
		res.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), pendingEvents); err != nil {
			return nil, err
		}
		result.Cancelled = append(result.Cancelled, string(res.ID))
	}

	if err := unit.Complete(ctx); err != nil {
		return nil, err
	}
	if len(result.Cancelled) > 0 {
		h.logger().InfoContext(ctx, "deadline sweep cancelled overdue reservations",
			slog.Int("count", len(result.Cancelled)))
	}
	return result, nil
}

func (h *SweepDeadlinesHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func encoderOrDefault(enc outbox.EventEncoder) outbox.EventEncoder {
	if enc != nil {
		return enc
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[SweepDeadlinesCommand, *SweepDeadlinesResult] = (*SweepDeadlinesHandler)(nil)
