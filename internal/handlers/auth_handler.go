package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

const accessCookie = "access_token"

func Register(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload services.RegisterPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		user, err := svc.Register(c.Request.Context(), payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, user, "account created"))
	}
}

func Login(svc *services.UserService, cookieMaxAge int, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload services.LoginPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid request body"))
			return
		}

		token, user, err := svc.Login(c.Request.Context(), payload)
		if err != nil {
			respondError(c, err)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(accessCookie, token, cookieMaxAge, "/", "", secureCookie, true)
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		}, "logged in"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(accessCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "logged out"))
	}
}
