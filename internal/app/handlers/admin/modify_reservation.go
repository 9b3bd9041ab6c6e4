package admin

import (
	"context"
	"time"

	"campsite/internal/app/commands"
	"campsite/internal/app/middleware"
	"campsite/internal/app/outbox"
	"campsite/internal/app/policies"
	"campsite/internal/app/uow"
	domainavailability "campsite/internal/domain/availability"
	domainreservation "campsite/internal/domain/reservation"
	domainrange "campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

const modifyReservationKey = "admin.modify_reservation"

type ModifyReservationCommand struct {
	ReservationID string
	SiteID        string
	CheckIn       string
	CheckOut      string
	FamilyCount   int
	VisitorCount  int
	VehicleCount  int
}

func (c ModifyReservationCommand) Key() string { return modifyReservationKey }

func (c ModifyReservationCommand) Validate() error {
	if c.FamilyCount <= 0 || c.VisitorCount < 0 || c.VehicleCount < 0 {
		return domainreservation.ErrInvalidOccupants
	}
	_, err := domainrange.Parse(c.CheckIn, c.CheckOut)
	return err
}

type ModifyReservationResult struct {
	ReservationID string `json:"reservationId"`
	TotalPrice    int64  `json:"totalPrice"`
}

// ModifyReservationHandler is the compound admin operation: re-check overlap
// excluding the reservation itself, recompute the price, and only when both
// succeed swap dates/site/occupancy/price in one atomic step. On failure the
// specific reason (conflict vs unknown site) comes back and nothing mutates.
type ModifyReservationHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ModifyReservationHandler) Handle(ctx context.Context, cmd ModifyReservationCommand) (*ModifyReservationResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	res, err := unit.Reservations().ByID(ctx, domainreservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}

	dr, err := domainrange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	siteID := domainsite.SiteID(cmd.SiteID)
	campSite, err := unit.Sites().ByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	index := domainavailability.Index{Reservations: unit.Reservations(), Blocks: unit.Blocks()}
	conflict, err := index.HasOverlap(ctx, siteID, dr, string(res.ID))
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domainavailability.ErrDateConflict
	}

	price, err := h.Pricing.Quote(ctx, campSite, dr, cmd.FamilyCount, cmd.VisitorCount)
	if err != nil {
		return nil, err
	}

	now := nowOrDefault(h.Now)
	prevSite, prevRange := res.SiteID, res.Range
	moved := prevSite != siteID || !prevRange.CheckIn.Equal(dr.CheckIn) || !prevRange.CheckOut.Equal(dr.CheckOut)

	if err := res.ApplyModification(domainreservation.Modification{
		SiteID:       siteID,
		Range:        dr,
		FamilyCount:  cmd.FamilyCount,
		VisitorCount: cmd.VisitorCount,
		VehicleCount: cmd.VehicleCount,
		Price:        price,
	}, now); err != nil {
		return nil, err
	}

	if moved {
		res.Record(domainavailability.DateRangeFreed{SiteID: prevSite, Range: prevRange, At: now})
		err = unit.Reservations().Move(ctx, res, prevSite, prevRange)
	} else {
		err = unit.Reservations().Save(ctx, res)
	}
	if err != nil {
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
	return &ModifyReservationResult{ReservationID: string(res.ID), TotalPrice: res.Price.Total}, nil
}

var _ commands.Handler[ModifyReservationCommand, *ModifyReservationResult] = (*ModifyReservationHandler)(nil)
var _ middleware.SelfValidating = ModifyReservationCommand{}
