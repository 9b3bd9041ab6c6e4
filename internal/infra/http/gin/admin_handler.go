package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"campsite/internal/app/commands"
	"campsite/internal/app/dto"
	adminapp "campsite/internal/app/handlers/admin"
	availabilityapp "campsite/internal/app/handlers/availability"
	deadlineapp "campsite/internal/app/handlers/deadline"
	refundapp "campsite/internal/app/handlers/refund"
	"campsite/internal/app/queries"
)

type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h AdminHandler) ConfirmDeposit(c *gin.Context) {
	cmd := adminapp.ConfirmDepositCommand{ReservationID: c.Param("id")}
	result, err := commands.Dispatch[adminapp.ConfirmDepositCommand, *adminapp.ConfirmDepositResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type modifyReservationRequest struct {
	SiteID       string `json:"siteId"`
	CheckIn      string `json:"checkInDate"`
	CheckOut     string `json:"checkOutDate"`
	FamilyCount  int    `json:"familyCount"`
	VisitorCount int    `json:"visitorCount"`
	VehicleCount int    `json:"vehicleCount"`
}

func (h AdminHandler) ModifyReservation(c *gin.Context) {
	var req modifyReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := adminapp.ModifyReservationCommand{
		ReservationID: c.Param("id"),
		SiteID:        req.SiteID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		FamilyCount:   req.FamilyCount,
		VisitorCount:  req.VisitorCount,
		VehicleCount:  req.VehicleCount,
	}
	result, err := commands.Dispatch[adminapp.ModifyReservationCommand, *adminapp.ModifyReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type adminCancelRequest struct {
	Reason string `json:"reason"`
}

func (h AdminHandler) CancelReservation(c *gin.Context) {
	var req adminCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := adminapp.CancelReservationCommand{ReservationID: c.Param("id"), Reason: req.Reason}
	result, err := commands.Dispatch[adminapp.CancelReservationCommand, *adminapp.CancelReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) CompleteRefund(c *gin.Context) {
	cmd := refundapp.CompleteRefundCommand{ReservationID: c.Param("id")}
	result, err := commands.Dispatch[refundapp.CompleteRefundCommand, *refundapp.CompleteRefundResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) ListDeadlines(c *gin.Context) {
	result, err := queries.Ask[deadlineapp.ListDeadlinesQuery, *deadlineapp.ListDeadlinesResult](c.Request.Context(), h.Queries, deadlineapp.ListDeadlinesQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockSiteRequest struct {
	SiteID    string `json:"siteId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Memo      string `json:"memo"`
	IsPaid    bool   `json:"isPaid"`
	GuestName string `json:"guestName"`
	Contact   string `json:"contact"`
}

func (h AdminHandler) BlockSite(c *gin.Context) {
	var req blockSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := adminapp.BlockSiteCommand{
		CommandID: generateCommandID(),
		SiteID:    req.SiteID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Memo:      req.Memo,
		IsPaid:    req.IsPaid,
		GuestName: req.GuestName,
		Contact:   req.Contact,
	}
	result, err := commands.Dispatch[adminapp.BlockSiteCommand, *adminapp.BlockSiteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) UnblockSite(c *gin.Context) {
	cmd := adminapp.UnblockSiteCommand{BlockID: c.Param("id")}
	result, err := commands.Dispatch[adminapp.UnblockSiteCommand, *adminapp.UnblockSiteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) MaxBlockDuration(c *gin.Context) {
	q := availabilityapp.MaxBlockDurationQuery{
		SiteID:    c.Query("siteId"),
		StartDate: c.Query("startDate"),
	}
	result, err := queries.Ask[availabilityapp.MaxBlockDurationQuery, dto.MaxBlockDuration](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
