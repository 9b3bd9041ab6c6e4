package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"campsite/internal/app/dto"
	availabilityapp "campsite/internal/app/handlers/availability"
	"campsite/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Calendar serves the anonymous occupancy view for a date window.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	q := availabilityapp.GetPublicAvailabilityQuery{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	result, err := queries.Ask[availabilityapp.GetPublicAvailabilityQuery, dto.PublicAvailability](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
