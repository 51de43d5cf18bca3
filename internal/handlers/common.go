package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/middleware"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

func respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.From(err); ok {
		c.JSON(appErr.HTTPStatus, models.ErrorResponse(appErr.HTTPStatus, appErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse(http.StatusInternalServerError, "something went wrong"))
}

// mustActor aborts with 401 when no authenticated actor is on the context.
func mustActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, "authentication required"))
		return services.Actor{}, false
	}
	return actor, true
}

func firstFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files := form.File[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// queryParams flattens the URL query to first values, the shape the
// query builder consumes.
func queryParams(c *gin.Context) map[string]string {
	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
