package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

func GetMe(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		user, err := svc.GetUser(c.Request.Context(), actor.ID.Hex())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, user, ""))
	}
}

func UpdateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var patch models.UserPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		user, err := svc.UpdateProfile(c.Request.Context(), actor, c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, user, "profile updated"))
	}
}

func ListUsers(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, meta, err := svc.ListUsers(c.Request.Context(), queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, users, meta, ""))
	}
}

func UpdateUserStatus(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			IsActive models.ActiveState `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		user, err := svc.SetActiveState(c.Request.Context(), c.Param("id"), body.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, user, "user state updated"))
	}
}

func DeleteUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.SoftDeleteUser(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "user deleted"))
	}
}
