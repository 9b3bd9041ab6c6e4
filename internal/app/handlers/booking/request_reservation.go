package booking

import (
	"context"
	"strings"
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

const requestReservationKey = "reservation.request"

type RequestReservationCommand struct {
	CommandID       string
	UserID          string
	SiteID          string
	CheckIn         string
	CheckOut        string
	FamilyCount     int
	VisitorCount    int
	VehicleCount    int
	GuestName       string
	GuestPhone      string
	Requests        string
	IdempotencyKeyV string
}

func (c RequestReservationCommand) Key() string { return requestReservationKey }

func (c RequestReservationCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestReservationCommand) ResultPrototype() any { return &RequestReservationResult{} }

func (c RequestReservationCommand) Validate() error {
	if strings.TrimSpace(c.SiteID) == "" {
		return &ValidationError{Reason: "site id required"}
	}
	if c.FamilyCount <= 0 || c.VisitorCount < 0 || c.VehicleCount < 0 {
		return &ValidationError{Reason: "occupant counts are malformed"}
	}
	_, err := domainrange.Parse(c.CheckIn, c.CheckOut)
	return err
}

type RequestReservationResult struct {
	ReservationID string `json:"reservationId"`
	TotalPrice    int64  `json:"totalPrice"`
}

type RequestReservationHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Policy     policies.PolicyPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RequestReservationHandler) Handle(ctx context.Context, cmd RequestReservationCommand) (*RequestReservationResult, error) {
	unit, ctx, err := uow.BeginScope(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	dr, err := domainrange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := nowOrDefault(h.Now)

	pol, err := h.Policy.Current(ctx)
	if err != nil {
		return nil, err
	}
	openDays, err := h.Policy.OpenDays(ctx)
	if err != nil {
		return nil, err
	}
	if err := openDays.AllowsCheckIn(dr.CheckIn, now); err != nil {
		return nil, err
	}

	siteID := domainsite.SiteID(cmd.SiteID)
	campSite, err := unit.Sites().ByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	index := domainavailability.Index{Reservations: unit.Reservations(), Blocks: unit.Blocks()}
	occs, err := index.Occupancies(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if err := ValidateStay(pol, occs, dr, now); err != nil {
		return nil, err
	}
	// fast reject; the repository re-checks atomically on insert
	if domainavailability.Overlaps(occs, dr, "") {
		return nil, domainavailability.ErrDateConflict
	}

	price, err := h.Pricing.Quote(ctx, campSite, dr, cmd.FamilyCount, cmd.VisitorCount)
	if err != nil {
		return nil, err
	}

	userID := cmd.UserID
	if strings.TrimSpace(userID) == "" {
		userID = domainreservation.GuestUser
	}
	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:           domainreservation.ReservationID(cmd.CommandID),
		UserID:       userID,
		SiteID:       siteID,
		Range:        dr,
		FamilyCount:  cmd.FamilyCount,
		VisitorCount: cmd.VisitorCount,
		VehicleCount: cmd.VehicleCount,
		Price:        price,
		GuestName:    cmd.GuestName,
		GuestPhone:   cmd.GuestPhone,
		Requests:     cmd.Requests,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reservations().Insert(ctx, res); err != nil {
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
	return &RequestReservationResult{ReservationID: string(res.ID), TotalPrice: res.Price.Total}, nil
}

var _ commands.Handler[RequestReservationCommand, *RequestReservationResult] = (*RequestReservationHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestReservationCommand)(nil)
