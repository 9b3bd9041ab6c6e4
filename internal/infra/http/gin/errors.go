package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "campsite/internal/app/handlers/booking"
	refundapp "campsite/internal/app/handlers/refund"
	domainavailability "campsite/internal/domain/availability"
	domainblock "campsite/internal/domain/block"
	domainpolicy "campsite/internal/domain/policy"
	domainpricing "campsite/internal/domain/pricing"
	domainreservation "campsite/internal/domain/reservation"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

// writeError maps the engine's error taxonomy onto HTTP statuses: conflicts
// are 409, policy and input rejections 400, missing aggregates 404.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var validation *bookingapp.ValidationError
	switch {
	case errors.Is(err, domainavailability.ErrDateConflict),
		errors.Is(err, domainreservation.ErrInvalidState),
		errors.Is(err, domainreservation.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, domainreservation.ErrNotFound),
		errors.Is(err, domainsite.ErrSiteNotFound),
		errors.Is(err, domainblock.ErrBlockNotFound):
		return http.StatusNotFound
	case errors.Is(err, bookingapp.ErrNotOwner),
		errors.Is(err, refundapp.ErrNotOwner):
		return http.StatusForbidden
	case errors.As(err, &validation),
		errors.Is(err, bookingapp.ErrCheckInInPast),
		errors.Is(err, domainpolicy.ErrOutsideBookingWindow),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainpricing.ErrInvalidOccupants),
		errors.Is(err, domainpricing.ErrNoFamily),
		errors.Is(err, domainreservation.ErrInvalidOccupants),
		errors.Is(err, domainreservation.ErrFamilyRequired),
		errors.Is(err, domainreservation.ErrStayNotOver),
		errors.Is(err, refundapp.ErrAccountRequired),
		errors.Is(err, domainblock.ErrSiteRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
