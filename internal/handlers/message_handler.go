package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

// CreateMessageRequest records a tourist's contact request to a guide.
func CreateMessageRequest(svc *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var payload services.CreateMessageRequestPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		req, err := svc.CreateRequest(c.Request.Context(), actor, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, req, "message request sent"))
	}
}

// GuideMessageRequests lists the requests addressed to the acting guide.
func GuideMessageRequests(svc *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		requests, err := svc.GuideRequests(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, requests, ""))
	}
}
