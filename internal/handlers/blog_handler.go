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
)

func CreateBlog(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}

		var payload services.CreateBlogPayload
		if err := c.ShouldBind(&payload); err != nil {
			respondError(c, apperr.BadRequest("invalid blog form"))
			return
		}

		var thumbnail *multipart.FileHeader
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			form, err := c.MultipartForm()
			if err != nil {
				respondError(c, apperr.BadRequest("invalid multipart form"))
				return
			}
			thumbnail = firstFile(form, "file")
		}

		blog, err := svc.CreateBlog(c.Request.Context(), actor, payload, thumbnail)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, blog, "blog created"))
	}
}

// GetBlog serves a single post by slug.
func GetBlog(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.GetBlog(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, blog, ""))
	}
}

func ListBlogs(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blogs, meta, err := svc.ListBlogs(c.Request.Context(), queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, blogs, meta, ""))
	}
}

func UpdateBlog(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := mustActor(c); !ok {
			return
		}

		var (
			patch     models.BlogPatch
			thumbnail *multipart.FileHeader
		)
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			form, err := c.MultipartForm()
			if err != nil {
				respondError(c, apperr.BadRequest("invalid multipart form"))
				return
			}
			if data := c.PostForm("data"); data != "" {
				if err := json.Unmarshal([]byte(data), &patch); err != nil {
					respondError(c, apperr.BadRequest("invalid data field"))
					return
				}
			}
			thumbnail = firstFile(form, "file")
		} else {
			if err := c.ShouldBindJSON(&patch); err != nil {
				respondError(c, apperr.BadRequest("invalid request body"))
				return
			}
		}

		blog, err := svc.UpdateBlog(c.Request.Context(), c.Param("id"), patch, thumbnail)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, blog, "blog updated"))
	}
}

func DeleteBlog(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := mustActor(c); !ok {
			return
		}

		if err := svc.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "blog deleted"))
	}
}
