package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

func UserStats(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.UserStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, stats, ""))
	}
}

func BookingStats(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.BookingStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, stats, ""))
	}
}

func PaymentStats(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.PaymentStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, stats, ""))
	}
}

func TourStats(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.TourStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, stats, ""))
	}
}
