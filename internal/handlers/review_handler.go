package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

func CreateReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var payload services.CreateReviewPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		review, err := svc.CreateReview(c.Request.Context(), actor, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, review, "review created"))
	}
}

func GetReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, err := svc.GetReview(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, review, ""))
	}
}

func UpdateReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var patch services.ReviewPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		review, err := svc.UpdateReview(c.Request.Context(), actor, c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, review, "review updated"))
	}
}

func DeleteReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		if err := svc.DeleteReview(c.Request.Context(), actor, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "review deleted"))
	}
}

func ListReviews(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, meta, err := svc.ListReviews(c.Request.Context(), queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, reviews, meta, ""))
	}
}

// MyReviews lists the reviews written by the authenticated user.
func MyReviews(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		reviews, meta, err := svc.MyReviews(c.Request.Context(), actor, queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, reviews, meta, ""))
	}
}
