package dto

import (
	"campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
)

// Reservation is the API projection of a reservation aggregate. Dates travel
// as YYYY-MM-DD strings.
type Reservation struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	SiteID       string `json:"siteId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	FamilyCount  int    `json:"familyCount"`
	VisitorCount int    `json:"visitorCount"`
	VehicleCount int    `json:"vehicleCount"`
	TotalPrice   int64  `json:"totalPrice"`
	Status       string `json:"status"`
	GuestName    string `json:"guestName,omitempty"`
	GuestPhone   string `json:"guestPhone,omitempty"`
	Requests     string `json:"requests,omitempty"`
	CreatedAt    string `json:"createdAt"`
	CancelReason string `json:"cancelReason,omitempty"`
	RefundRate   int    `json:"refundRate,omitempty"`
	RefundAmount int64  `json:"refundAmount,omitempty"`
}

func MapReservation(r *reservation.Reservation) Reservation {
	return Reservation{
		ID:           string(r.ID),
		UserID:       r.UserID,
		SiteID:       string(r.SiteID),
		CheckInDate:  daterange.FormatDate(r.Range.CheckIn),
		CheckOutDate: daterange.FormatDate(r.Range.CheckOut),
		FamilyCount:  r.FamilyCount,
		VisitorCount: r.VisitorCount,
		VehicleCount: r.VehicleCount,
		TotalPrice:   r.Price.Total,
		Status:       string(r.Status),
		GuestName:    r.GuestName,
		GuestPhone:   r.GuestPhone,
		Requests:     r.Requests,
		CreatedAt:    r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		CancelReason: r.CancelReason,
		RefundRate:   r.Refund.RatePercent,
		RefundAmount: r.Refund.Amount,
	}
}

func MapReservations(items []*reservation.Reservation) []Reservation {
	out := make([]Reservation, 0, len(items))
	for _, r := range items {
		out = append(out, MapReservation(r))
	}
	return out
}
