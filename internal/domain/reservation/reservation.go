package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"campsite/internal/domain/pricing"
	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/shared/events"
	"campsite/internal/domain/site"
)

var (
	ErrInvalidOccupants = errors.New("reservation: occupant counts must be non-negative")
	ErrFamilyRequired   = errors.New("reservation: at least one family unit is required")
	ErrUserRequired     = errors.New("reservation: user id required")
	ErrInvalidState     = errors.New("reservation: invalid state transition")
	ErrNotFound         = errors.New("reservation: not found")
	ErrVersionConflict  = errors.New("reservation: stale version")
	ErrStayNotOver      = errors.New("reservation: checkout date has not passed")
)

// GuestUser is the sentinel user id for walk-in bookings taken over the phone.
const GuestUser = "guest"

type ReservationID string

type Status string

const (
	StatusPending       Status = "PENDING"
	StatusConfirmed     Status = "CONFIRMED"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
	StatusRefundPending Status = "REFUND_PENDING"
	StatusRefunded      Status = "REFUNDED"
)

// Occupying reports whether a reservation in this status still holds its
// date range against the overlap invariant.
func (s Status) Occupying() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// Terminal statuses admit no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// RefundDetails carries the bank coordinates and computed payout for a
// cancellation of a confirmed reservation.
type RefundDetails struct {
	Bank        string
	Account     string
	Holder      string
	RatePercent int
	Amount      int64
}

// Reservation is the aggregate owning the booking lifecycle. Reservations are
// never physically deleted, only transitioned to CANCELLED or REFUNDED.
type Reservation struct {
	ID           ReservationID
	UserID       string
	SiteID       site.SiteID
	Range        daterange.DateRange
	FamilyCount  int
	VisitorCount int
	VehicleCount int
	Price        pricing.Breakdown
	Status       Status
	GuestName    string
	GuestPhone   string
	Requests     string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CancelReason string
	CancelledAt  time.Time
	Refund       RefundDetails
	RefundedAt   time.Time

	Version int64
	events.EventRecorder
}

type CreateParams struct {
	ID           ReservationID
	UserID       string
	SiteID       site.SiteID
	Range        daterange.DateRange
	FamilyCount  int
	VisitorCount int
	VehicleCount int
	Price        pricing.Breakdown
	GuestName    string
	GuestPhone   string
	Requests     string
	CreatedAt    time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, ErrUserRequired
	}
	if params.FamilyCount < 0 || params.VisitorCount < 0 || params.VehicleCount < 0 {
		return nil, ErrInvalidOccupants
	}
	if params.FamilyCount == 0 {
		return nil, ErrFamilyRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	r := &Reservation{
		ID:           params.ID,
		UserID:       params.UserID,
		SiteID:       params.SiteID,
		Range:        params.Range,
		FamilyCount:  params.FamilyCount,
		VisitorCount: params.VisitorCount,
		VehicleCount: params.VehicleCount,
		Price:        params.Price,
		Status:       StatusPending,
		GuestName:    params.GuestName,
		GuestPhone:   params.GuestPhone,
		Requests:     params.Requests,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.Record(ReservationRequested{ReservationID: r.ID, UserID: r.UserID, SiteID: r.SiteID, Range: r.Range, Total: r.Price.Total, At: now})
	return r, nil
}

// ConfirmDeposit marks the manual bank transfer as received.
func (r *Reservation) ConfirmDeposit(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now.UTC()
	r.Record(DepositConfirmed{ReservationID: r.ID, SiteID: r.SiteID, Range: r.Range, At: r.UpdatedAt})
	return nil
}

// Cancel transitions a pending or confirmed reservation to CANCELLED. It
// covers deposit timeouts, user cancellation while pending and admin
// cancellation; confirmed cancellations with a refund go through RequestRefund
// instead.
func (r *Reservation) Cancel(reason string, now time.Time) error {
	switch r.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidState
	}
	r.Status = StatusCancelled
	r.CancelReason = reason
	r.CancelledAt = now.UTC()
	r.UpdatedAt = r.CancelledAt
	r.Record(ReservationCancelled{ReservationID: r.ID, SiteID: r.SiteID, Range: r.Range, Reason: reason, At: r.UpdatedAt})
	return nil
}

// Complete closes out a confirmed stay whose checkout date has passed.
func (r *Reservation) Complete(now time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrInvalidState
	}
	if daterange.Date(now).Before(r.Range.CheckOut) {
		return ErrStayNotOver
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now.UTC()
	r.Record(StayCompleted{ReservationID: r.ID, SiteID: r.SiteID, At: r.UpdatedAt})
	return nil
}

// RequestRefund moves a confirmed reservation into REFUND_PENDING with the
// tier already resolved by the caller.
func (r *Reservation) RequestRefund(details RefundDetails, reason string, now time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrInvalidState
	}
	r.Status = StatusRefundPending
	r.Refund = details
	r.CancelReason = reason
	r.CancelledAt = now.UTC()
	r.UpdatedAt = r.CancelledAt
	r.Record(RefundRequested{ReservationID: r.ID, SiteID: r.SiteID, Range: r.Range, RatePercent: details.RatePercent, Amount: details.Amount, At: r.UpdatedAt})
	return nil
}

// CompleteRefund records the admin payout and closes the lifecycle.
func (r *Reservation) CompleteRefund(now time.Time) error {
	if r.Status != StatusRefundPending {
		return ErrInvalidState
	}
	r.Status = StatusRefunded
	r.RefundedAt = now.UTC()
	r.UpdatedAt = r.RefundedAt
	r.Record(RefundCompleted{ReservationID: r.ID, Amount: r.Refund.Amount, At: r.UpdatedAt})
	return nil
}

type Modification struct {
	SiteID       site.SiteID
	Range        daterange.DateRange
	FamilyCount  int
	VisitorCount int
	VehicleCount int
	Price        pricing.Breakdown
}

// ApplyModification swaps dates/site/occupancy and the recomputed price in one
// step. The caller must have re-verified the overlap invariant excluding this
// reservation beforehand; the repository re-verifies it again on save.
func (r *Reservation) ApplyModification(m Modification, now time.Time) error {
	switch r.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidState
	}
	if m.FamilyCount <= 0 || m.VisitorCount < 0 || m.VehicleCount < 0 {
		return ErrInvalidOccupants
	}
	if err := m.Range.Validate(); err != nil {
		return err
	}
	prevSite, prevRange := r.SiteID, r.Range
	r.SiteID = m.SiteID
	r.Range = m.Range
	r.FamilyCount = m.FamilyCount
	r.VisitorCount = m.VisitorCount
	r.VehicleCount = m.VehicleCount
	r.Price = m.Price
	r.UpdatedAt = now.UTC()
	r.Record(ReservationModified{ReservationID: r.ID, PrevSiteID: prevSite, PrevRange: prevRange, SiteID: r.SiteID, Range: r.Range, Total: r.Price.Total, At: r.UpdatedAt})
	return nil
}

// Repository is the persistence port. Insert and Move are the atomic
// check-overlap-then-write boundary of the engine: the in-process availability
// scan is advisory only and two racing writers are arbitrated here.
type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	// Insert atomically re-validates the overlap invariant and persists a new
	// reservation, returning availability.ErrDateConflict on a lost race.
	Insert(ctx context.Context, r *Reservation) error
	// Save persists field/status updates under optimistic concurrency. It does
	// not change the occupied range.
	Save(ctx context.Context, r *Reservation) error
	// Move persists a modification that changes site and/or dates, atomically
	// releasing the previous slot and claiming the new one.
	Move(ctx context.Context, r *Reservation, prevSite site.SiteID, prevRange daterange.DateRange) error
	// Release frees the occupied range of a reservation leaving occupancy
	// (cancel/refund) while saving its new state.
	Release(ctx context.Context, r *Reservation) error
	ListByUser(ctx context.Context, userID string) ([]*Reservation, error)
	ListBySite(ctx context.Context, id site.SiteID) ([]*Reservation, error)
	ListByStatus(ctx context.Context, status Status) ([]*Reservation, error)
	// ListWindow returns reservations whose range intersects [from, to).
	ListWindow(ctx context.Context, rng daterange.DateRange) ([]*Reservation, error)
}
