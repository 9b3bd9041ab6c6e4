package deadline

import (
	"context"
	"time"

	"campsite/internal/app/dto"
	"campsite/internal/app/policies"
	"campsite/internal/app/queries"
	"campsite/internal/app/uow"
	domainreservation "campsite/internal/domain/reservation"
)

const listDeadlinesKey = "deadline.list"

type ListDeadlinesQuery struct {
	// Statuses filters the report; empty means WARNING and OVERDUE only.
	Statuses []domainreservation.DeadlineStatus
}

func (q ListDeadlinesQuery) Key() string { return listDeadlinesKey }

type DeadlineEntry struct {
	Reservation dto.Reservation `json:"reservation"`
	Deadline    string          `json:"deadline"`
	GraceUntil  string          `json:"graceUntil"`
	Status      string          `json:"status"`
}

type ListDeadlinesResult struct {
	Entries []DeadlineEntry `json:"entries"`
}

// ListDeadlinesHandler reports pending reservations against their deposit
// deadline so the admin dashboard can chase transfers before the sweep
// cancels them.
type ListDeadlinesHandler struct {
	UoWFactory uow.UoWFactory
	Policy     policies.PolicyPort
	Now        func() time.Time
}

func (h *ListDeadlinesHandler) Handle(ctx context.Context, q ListDeadlinesQuery) (*ListDeadlinesResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	pol, err := h.Policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	wanted := q.Statuses
	if len(wanted) == 0 {
		wanted = []domainreservation.DeadlineStatus{domainreservation.DeadlineWarning, domainreservation.DeadlineOverdue}
	}

	pending, err := unit.Reservations().ListByStatus(ctx, domainreservation.StatusPending)
	if err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	entries := make([]DeadlineEntry, 0, len(pending))
	for _, res := range pending {
		status := res.ClassifyDeadline(pol.DepositDeadlineHours, now)
		if !contains(wanted, status) {
			continue
		}
		deadline := res.DepositDeadline(pol.DepositDeadlineHours)
		entries = append(entries, DeadlineEntry{
			Reservation: dto.MapReservation(res),
			Deadline:    deadline.UTC().Format(time.RFC3339),
			GraceUntil:  domainreservation.GraceBoundary(deadline).UTC().Format(time.RFC3339),
			Status:      string(status),
		})
	}

	if err := unit.Complete(ctx); err != nil {
		return nil, err
	}
	return &ListDeadlinesResult{Entries: entries}, nil
}

func contains(set []domainreservation.DeadlineStatus, s domainreservation.DeadlineStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

var _ queries.Handler[ListDeadlinesQuery, *ListDeadlinesResult] = (*ListDeadlinesHandler)(nil)
