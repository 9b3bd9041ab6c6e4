package reservation

import (
	"time"

	"campsite/internal/domain/shared/daterange"
	"campsite/internal/domain/site"
)

type ReservationRequested struct {
	ReservationID ReservationID
	UserID        string
	SiteID        site.SiteID
	Range         daterange.DateRange
	Total         int64
	At            time.Time
}

func (e ReservationRequested) EventName() string     { return "reservation.requested" }
func (e ReservationRequested) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationRequested) OccurredAt() time.Time { return e.At }

type DepositConfirmed struct {
	ReservationID ReservationID
	SiteID        site.SiteID
	Range         daterange.DateRange
	At            time.Time
}

func (e DepositConfirmed) EventName() string     { return "reservation.deposit_confirmed" }
func (e DepositConfirmed) AggregateID() string   { return string(e.ReservationID) }
func (e DepositConfirmed) OccurredAt() time.Time { return e.At }

type ReservationCancelled struct {
	ReservationID ReservationID
	SiteID        site.SiteID
	Range         daterange.DateRange
	Reason        string
	At            time.Time
}

func (e ReservationCancelled) EventName() string     { return "reservation.cancelled" }
func (e ReservationCancelled) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationCancelled) OccurredAt() time.Time { return e.At }

type StayCompleted struct {
	ReservationID ReservationID
	SiteID        site.SiteID
	At            time.Time
}

func (e StayCompleted) EventName() string     { return "reservation.completed" }
func (e StayCompleted) AggregateID() string   { return string(e.ReservationID) }
func (e StayCompleted) OccurredAt() time.Time { return e.At }

type RefundRequested struct {
	ReservationID ReservationID
	SiteID        site.SiteID
	Range         daterange.DateRange
	RatePercent   int
	Amount        int64
	At            time.Time
}

func (e RefundRequested) EventName() string     { return "reservation.refund_requested" }
func (e RefundRequested) AggregateID() string   { return string(e.ReservationID) }
func (e RefundRequested) OccurredAt() time.Time { return e.At }

type RefundCompleted struct {
	ReservationID ReservationID
	Amount        int64
	At            time.Time
}

func (e RefundCompleted) EventName() string     { return "reservation.refund_completed" }
func (e RefundCompleted) AggregateID() string   { return string(e.ReservationID) }
func (e RefundCompleted) OccurredAt() time.Time { return e.At }

type ReservationModified struct {
	ReservationID ReservationID
	PrevSiteID    site.SiteID
	PrevRange     daterange.DateRange
	SiteID        site.SiteID
	Range         daterange.DateRange
	Total         int64
	At            time.Time
}

func (e ReservationModified) EventName() string     { return "reservation.modified" }
func (e ReservationModified) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationModified) OccurredAt() time.Time { return e.At }
