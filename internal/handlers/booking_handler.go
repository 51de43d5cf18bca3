package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

func CreateBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var payload services.CreateBookingPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		checkout, err := svc.CreateBooking(c.Request.Context(), actor, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, checkout, "booking created"))
	}
}

func GetBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		booking, err := svc.GetBooking(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, booking, ""))
	}
}

func ListBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		bookings, meta, err := svc.ListBookings(c.Request.Context(), actor, queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, bookings, meta, ""))
	}
}

func UpdateBookingStatus(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var body struct {
			Status models.BookingStatus `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		booking, err := svc.UpdateBookingStatus(c.Request.Context(), actor, c.Param("bookingId"), body.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, booking, "booking status updated"))
	}
}

// CancelBooking is the tourist shortcut for cancelling their own booking.
func CancelBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		booking, err := svc.CancelBooking(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, booking, "booking cancelled"))
	}
}

func GuideReservedDates(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dates, err := svc.GuideReservedDates(c.Request.Context(), c.Param("authorId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, dates, ""))
	}
}
