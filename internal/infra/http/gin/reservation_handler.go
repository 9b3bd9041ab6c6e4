package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campsite/internal/app/commands"
	"campsite/internal/app/dto"
	bookingapp "campsite/internal/app/handlers/booking"
	refundapp "campsite/internal/app/handlers/refund"
	"campsite/internal/app/queries"
)

type ReservationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createReservationRequest struct {
	UserID       string `json:"userId"`
	SiteID       string `json:"siteId"`
	CheckIn      string `json:"checkInDate"`
	CheckOut     string `json:"checkOutDate"`
	FamilyCount  int    `json:"familyCount"`
	VisitorCount int    `json:"visitorCount"`
	VehicleCount int    `json:"vehicleCount"`
	GuestName    string `json:"guestName"`
	GuestPhone   string `json:"guestPhone"`
	Requests     string `json:"requests"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RequestReservationCommand{
		CommandID:       generateCommandID(),
		UserID:          req.UserID,
		SiteID:          req.SiteID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		FamilyCount:     req.FamilyCount,
		VisitorCount:    req.VisitorCount,
		VehicleCount:    req.VehicleCount,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		Requests:        req.Requests,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestReservationCommand, *bookingapp.RequestReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelReservationRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

func (h ReservationHandler) Cancel(c *gin.Context) {
	var req cancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CancelPendingCommand{
		ReservationID: c.Param("id"),
		UserID:        req.UserID,
		Reason:        req.Reason,
	}
	result, err := commands.Dispatch[bookingapp.CancelPendingCommand, *bookingapp.CancelPendingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type requestRefundRequest struct {
	UserID  string `json:"userId"`
	Reason  string `json:"reason"`
	Bank    string `json:"bank"`
	Account string `json:"account"`
	Holder  string `json:"holder"`
}

func (h ReservationHandler) RequestRefund(c *gin.Context) {
	var req requestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := refundapp.RequestCancelCommand{
		ReservationID: c.Param("id"),
		UserID:        req.UserID,
		Reason:        req.Reason,
		Bank:          req.Bank,
		Account:       req.Account,
		Holder:        req.Holder,
	}
	result, err := commands.Dispatch[refundapp.RequestCancelCommand, *refundapp.RequestCancelResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) ListMine(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter required"})
		return
	}
	result, err := queries.Ask[bookingapp.ListMyReservationsQuery, []dto.Reservation](c.Request.Context(), h.Queries, bookingapp.ListMyReservationsQuery{UserID: userID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": result})
}

func generateCommandID() string {
	return uuid.NewString()
}
