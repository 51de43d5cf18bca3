package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/helpers"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateBlogPayload struct {
	Title       string   `form:"title" json:"title" validate:"required"`
	Description string   `form:"description" json:"description" validate:"required"`
	Content     string   `form:"content" json:"content" validate:"required"`
	Tags        []string `form:"tags" json:"tags"`
	ReadTime    int      `form:"readTime" json:"readTime" validate:"omitempty,min=0"`
}

type BlogService struct {
	blogs  models.BlogRepo
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

func NewBlogService(blogs models.BlogRepo, cld *cloudinary.Cloudinary, logger *slog.Logger) *BlogService {
	return &BlogService{blogs: blogs, cld: cld, logger: logger}
}

// CreateBlog publishes a post authored by the acting admin.
func (s *BlogService) CreateBlog(ctx context.Context, actor Actor, payload CreateBlogPayload, thumbnail *multipart.FileHeader) (*models.Blog, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid blog payload: %v", err))
	}

	slug := helpers.Slugify(payload.Title)
	taken, err := s.blogs.BlogSlugTaken(ctx, slug, primitive.NilObjectID)
	if err != nil {
		return nil, apperr.Internal("failed to check slug", err)
	}
	if taken {
		return nil, apperr.Conflict("a blog with this title already exists")
	}

	now := time.Now()
	blog := &models.Blog{
		Title:       payload.Title,
		Slug:        slug,
		Description: payload.Description,
		Content:     payload.Content,
		Tags:        payload.Tags,
		ReadTime:    payload.ReadTime,
		Author:      actor.ID,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.cld != nil && thumbnail != nil {
		urls, err := helpers.UploadImages(ctx, s.cld, []*multipart.FileHeader{thumbnail}, helpers.BlogFolder)
		if err != nil {
			return nil, apperr.Internal("failed to upload thumbnail", err)
		}
		blog.Thumbnail = urls[0]
	}

	created, err := s.blogs.InsertBlog(ctx, blog)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("a blog with this title already exists")
		}
		return nil, apperr.Internal("failed to create blog", err)
	}
	return created, nil
}

// GetBlog reads a post by slug, counting the view.
func (s *BlogService) GetBlog(ctx context.Context, slug string) (*models.Blog, error) {
	blog, err := s.blogs.ReadBlogBySlug(ctx, slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("blog not found")
		}
		return nil, apperr.Internal("failed to load blog", err)
	}
	return blog, nil
}

func (s *BlogService) ListBlogs(ctx context.Context, params map[string]string) ([]*models.Blog, *models.Meta, error) {
	blogs, meta, err := s.blogs.ListBlogs(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list blogs", err)
	}
	return blogs, meta, nil
}

// UpdateBlog applies a partial edit. A title change regenerates the slug,
// a new thumbnail replaces the old one in storage after the update lands.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, patch models.BlogPatch, thumbnail *multipart.FileHeader) (*models.Blog, error) {
	blogID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid blog id")
	}

	existing, err := s.blogs.GetBlogByID(ctx, blogID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("blog not found")
		}
		return nil, apperr.Internal("failed to load blog", err)
	}

	set := patch.SetDoc()
	if patch.Title != nil && *patch.Title != existing.Title {
		slug := helpers.Slugify(*patch.Title)
		taken, err := s.blogs.BlogSlugTaken(ctx, slug, blogID)
		if err != nil {
			return nil, apperr.Internal("failed to check slug", err)
		}
		if taken {
			return nil, apperr.Conflict("a blog with this title already exists")
		}
		set["slug"] = slug
	}

	oldThumbnail := ""
	if s.cld != nil && thumbnail != nil {
		urls, err := helpers.UploadImages(ctx, s.cld, []*multipart.FileHeader{thumbnail}, helpers.BlogFolder)
		if err != nil {
			return nil, apperr.Internal("failed to upload thumbnail", err)
		}
		set["thumbnail"] = urls[0]
		oldThumbnail = existing.Thumbnail
	}

	if len(set) == 0 {
		return nil, apperr.BadRequest("nothing to update")
	}

	updated, err := s.blogs.UpdateBlog(ctx, blogID, set)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("a blog with this title already exists")
		}
		return nil, apperr.Internal("failed to update blog", err)
	}

	if oldThumbnail != "" {
		if err := helpers.DeleteByURL(ctx, s.cld, oldThumbnail); err != nil {
			s.logger.Warn("failed to delete replaced blog thumbnail", "url", oldThumbnail, "error", err)
		}
	}
	return updated, nil
}

// DeleteBlog removes the post, then best-effort cleans up its thumbnail.
func (s *BlogService) DeleteBlog(ctx context.Context, id string) error {
	blogID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid blog id")
	}

	existing, err := s.blogs.GetBlogByID(ctx, blogID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("blog not found")
		}
		return apperr.Internal("failed to load blog", err)
	}

	if err := s.blogs.DeleteBlog(ctx, blogID); err != nil {
		return apperr.Internal("failed to delete blog", err)
	}

	if s.cld != nil && existing.Thumbnail != "" {
		if err := helpers.DeleteByURL(ctx, s.cld, existing.Thumbnail); err != nil {
			s.logger.Warn("failed to delete blog thumbnail", "url", existing.Thumbnail, "error", err)
		}
	}
	return nil
}
