package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateTour(svc *services.TourService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var payload services.CreateTourPayload
		if err := c.ShouldBind(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid tour form"))
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, apperr.BadRequest("expected multipart form"))
			return
		}
		thumbnail := firstFile(form, "thumbnail")
		images := form.File["images"]

		tour, err := svc.CreateTour(c.Request.Context(), actor, payload, thumbnail, images)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, tour, "tour created"))
	}
}

// GetTour resolves the path param as an object id first and falls back to
// a slug lookup, so /listing/:key serves both shapes.
func GetTour(svc *services.TourService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")

		var (
			tour *models.TourWithAuthor
			err  error
		)
		if _, idErr := primitive.ObjectIDFromHex(key); idErr == nil {
			tour, err = svc.GetTourByID(c.Request.Context(), key)
		} else {
			tour, err = svc.GetTourBySlug(c.Request.Context(), key)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, tour, ""))
	}
}

func ListTours(svc *services.TourService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tours, meta, err := svc.ListTours(c.Request.Context(), queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, tours, meta, ""))
	}
}

func SearchTours(svc *services.TourService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tours, meta, err := svc.SearchTours(c.Request.Context(), queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, tours, meta, ""))
	}
}

func UpdateTour(svc *services.TourService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var (
			patch        models.TourPatch
			thumbnail    *multipart.FileHeader
			newImages    []*multipart.FileHeader
			deleteImages []string
		)

		if strings.HasPrefix(c.ContentType(), "multipart/") {
			form, err := c.MultipartForm()
			if err != nil {
				respondError(c, apperr.BadRequest("invalid multipart form"))
				return
			}
			// Field changes ride along as a JSON "data" part.
			if data := c.PostForm("data"); data != "" {
				if err := json.Unmarshal([]byte(data), &patch); err != nil {
					respondError(c, apperr.BadRequest("invalid data field"))
					return
				}
			}
			thumbnail = firstFile(form, "thumbnail")
			newImages = form.File["images"]
			deleteImages = form.Value["deleteImages"]
		} else {
			var body struct {
				models.TourPatch
				DeleteImages []string `json:"deleteImages"`
			}
			if err := c.ShouldBindJSON(&body); err != nil {
				respondError(c, apperr.BadRequest("invalid request body"))
				return
			}
			patch = body.TourPatch
			deleteImages = body.DeleteImages
		}

		tour, err := svc.UpdateTour(c.Request.Context(), actor, c.Param("key"), patch, thumbnail, newImages, deleteImages)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, tour, "tour updated"))
	}
}

func DeleteTour(svc *services.TourService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		if err := svc.DeleteTour(c.Request.Context(), actor, c.Param("key")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "tour deleted"))
	}
}
