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

type CreateTourPayload struct {
	Title           string  `form:"title" validate:"required,min=3"`
	Description     string  `form:"description" validate:"required"`
	Itinerary       string  `form:"itinerary"`
	Fee             float64 `form:"fee" validate:"gte=0"`
	DurationHours   int     `form:"durationHours" validate:"gte=0"`
	MeetingPoint    string  `form:"meetingPoint"`
	MaxGroupSize    int     `form:"maxGroupSize" validate:"gte=0"`
	Language        string  `form:"language" validate:"required"`
	Category        string  `form:"category" validate:"required"`
	DestinationCity string  `form:"destinationCity" validate:"required"`
}

type TourService struct {
	tours   models.TourRepo
	reviews models.ReviewRepo
	users   models.UserRepo
	cld     *cloudinary.Cloudinary
	logger  *slog.Logger
}

func NewTourService(
	tours models.TourRepo,
	reviews models.ReviewRepo,
	users models.UserRepo,
	cld *cloudinary.Cloudinary,
	logger *slog.Logger,
) *TourService {
	return &TourService{tours: tours, reviews: reviews, users: users, cld: cld, logger: logger}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// CreateTour publishes a new listing authored by the acting guide.
func (s *TourService) CreateTour(ctx context.Context, actor Actor, payload CreateTourPayload, thumbnail *multipart.FileHeader, images []*multipart.FileHeader) (*models.Tour, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid tour payload: %v", err))
	}
	if !contains(models.TourCategories, payload.Category) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown category %q", payload.Category))
	}
	if !contains(models.TourLanguages, payload.Language) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown language %q", payload.Language))
	}

	slug := helpers.Slugify(payload.Title)
	taken, err := s.tours.SlugTaken(ctx, slug, primitive.NilObjectID)
	if err != nil {
		return nil, apperr.Internal("failed to check slug", err)
	}
	if taken {
		return nil, apperr.Conflict("a tour with this title already exists")
	}

	now := time.Now()
	tour := &models.Tour{
		Title:           payload.Title,
		Slug:            slug,
		Description:     payload.Description,
		Itinerary:       payload.Itinerary,
		Fee:             payload.Fee,
		DurationHours:   payload.DurationHours,
		MeetingPoint:    payload.MeetingPoint,
		MaxGroupSize:    payload.MaxGroupSize,
		Author:          actor.ID,
		Language:        payload.Language,
		Category:        payload.Category,
		DestinationCity: payload.DestinationCity,
		Status:          models.TourPublic,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.cld != nil {
		if thumbnail != nil {
			urls, err := helpers.UploadImages(ctx, s.cld, []*multipart.FileHeader{thumbnail}, helpers.TourFolder)
			if err != nil {
				return nil, apperr.Internal("failed to upload thumbnail", err)
			}
			tour.Thumbnail = urls[0]
		}
		if len(images) > 0 {
			urls, err := helpers.UploadImages(ctx, s.cld, images, helpers.TourFolder)
			if err != nil {
				return nil, apperr.Internal("failed to upload tour images", err)
			}
			tour.Images = urls
		}
	}

	created, err := s.tours.CreateTour(ctx, tour)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("a tour with this title already exists")
		}
		return nil, apperr.Internal("failed to create tour", err)
	}
	return created, nil
}

func (s *TourService) GetTourByID(ctx context.Context, id string) (*models.TourWithAuthor, error) {
	tourID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid tour id")
	}

	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("tour not found")
		}
		return nil, apperr.Internal("failed to load tour", err)
	}

	decorated, err := s.decorate(ctx, []*models.Tour{tour})
	if err != nil {
		return nil, err
	}
	return decorated[0], nil
}

func (s *TourService) GetTourBySlug(ctx context.Context, slug string) (*models.TourWithAuthor, error) {
	tour, err := s.tours.GetTourBySlug(ctx, slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("tour not found")
		}
		return nil, apperr.Internal("failed to load tour", err)
	}

	decorated, err := s.decorate(ctx, []*models.Tour{tour})
	if err != nil {
		return nil, err
	}
	return decorated[0], nil
}

func (s *TourService) ListTours(ctx context.Context, params map[string]string) ([]*models.TourWithAuthor, *models.Meta, error) {
	tours, meta, err := s.tours.ListTours(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list tours", err)
	}

	decorated, err := s.decorate(ctx, tours)
	if err != nil {
		return nil, nil, err
	}
	return decorated, meta, nil
}

// SearchTours is the storefront search: free-text terms plus priceRange,
// category, language, status and isActive filters.
func (s *TourService) SearchTours(ctx context.Context, params map[string]string) ([]*models.TourWithAuthor, *models.Meta, error) {
	tours, meta, err := s.tours.SearchTours(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to search tours", err)
	}

	decorated, err := s.decorate(ctx, tours)
	if err != nil {
		return nil, nil, err
	}
	return decorated, meta, nil
}

// decorate attaches each tour's author and the author's aggregated review
// stats, one batch query per collection.
func (s *TourService) decorate(ctx context.Context, tours []*models.Tour) ([]*models.TourWithAuthor, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(tours))
	seen := map[primitive.ObjectID]bool{}
	for _, t := range tours {
		if !seen[t.Author] {
			seen[t.Author] = true
			authorIDs = append(authorIDs, t.Author)
		}
	}

	authors := map[primitive.ObjectID]*models.User{}
	if len(authorIDs) > 0 {
		users, err := s.users.GetUsersByIDs(ctx, authorIDs)
		if err != nil {
			return nil, apperr.Internal("failed to load tour authors", err)
		}
		for _, u := range users {
			authors[u.ID] = u
		}
	}

	stats, err := s.reviews.AggregateGuideStats(ctx, authorIDs)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate guide reviews", err)
	}

	out := make([]*models.TourWithAuthor, 0, len(tours))
	for _, t := range tours {
		row := &models.TourWithAuthor{Tour: *t}
		if u, ok := authors[t.Author]; ok {
			author := &models.TourAuthor{
				UserRef: models.UserRef{
					ID:      u.ID,
					Name:    u.Name,
					Email:   u.Email,
					Phone:   u.Phone,
					Address: u.Address,
					Picture: u.Picture,
				},
			}
			if st, ok := stats[t.Author]; ok {
				author.ReviewCount = st.ReviewCount
				author.AvgRating = st.AvgRating
			}
			row.AuthorDoc = author
		}
		out = append(out, row)
	}
	return out, nil
}

// UpdateTour patches the listing and reconciles its image set. Removed
// images are destroyed on cloudinary after the document is saved, and
// only best effort.
func (s *TourService) UpdateTour(ctx context.Context, actor Actor, id string, patch models.TourPatch, thumbnail *multipart.FileHeader, newImages []*multipart.FileHeader, deleteImages []string) (*models.Tour, error) {
	tourID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid tour id")
	}

	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("tour not found")
		}
		return nil, apperr.Internal("failed to load tour", err)
	}
	if tour.Author != actor.ID && !actor.Role.IsAdmin() {
		return nil, apperr.Forbidden("you can only update your own tours")
	}

	if patch.Status != nil {
		switch *patch.Status {
		case models.TourPublic, models.TourPrivate, models.TourHold, models.TourSuspended:
		default:
			return nil, apperr.BadRequest(fmt.Sprintf("invalid tour status %q", *patch.Status))
		}
	}
	if patch.Category != nil && !contains(models.TourCategories, *patch.Category) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown category %q", *patch.Category))
	}
	if patch.Language != nil && !contains(models.TourLanguages, *patch.Language) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown language %q", *patch.Language))
	}

	set := patch.SetDoc()

	if patch.Title != nil && *patch.Title != tour.Title {
		slug := helpers.Slugify(*patch.Title)
		taken, err := s.tours.SlugTaken(ctx, slug, tourID)
		if err != nil {
			return nil, apperr.Internal("failed to check slug", err)
		}
		if taken {
			return nil, apperr.Conflict("a tour with this title already exists")
		}
		set["slug"] = slug
	}

	var removed []string
	if len(deleteImages) > 0 || len(newImages) > 0 {
		keep := make([]string, 0, len(tour.Images))
		for _, img := range tour.Images {
			if contains(deleteImages, img) {
				removed = append(removed, img)
			} else {
				keep = append(keep, img)
			}
		}
		if s.cld != nil && len(newImages) > 0 {
			urls, err := helpers.UploadImages(ctx, s.cld, newImages, helpers.TourFolder)
			if err != nil {
				return nil, apperr.Internal("failed to upload tour images", err)
			}
			keep = append(keep, urls...)
		}
		set["images"] = keep
	}

	if s.cld != nil && thumbnail != nil {
		urls, err := helpers.UploadImages(ctx, s.cld, []*multipart.FileHeader{thumbnail}, helpers.TourFolder)
		if err != nil {
			return nil, apperr.Internal("failed to upload thumbnail", err)
		}
		set["thumbnail"] = urls[0]
		if tour.Thumbnail != "" {
			removed = append(removed, tour.Thumbnail)
		}
	}

	if len(set) == 0 {
		return nil, apperr.BadRequest("nothing to update")
	}

	updated, err := s.tours.UpdateTour(ctx, tourID, set)
	if err != nil {
		return nil, apperr.Internal("failed to update tour", err)
	}

	s.destroyImages(ctx, removed)
	return updated, nil
}

// DeleteTour removes the listing and then its cloudinary assets.
func (s *TourService) DeleteTour(ctx context.Context, actor Actor, id string) error {
	tourID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid tour id")
	}

	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("tour not found")
		}
		return apperr.Internal("failed to load tour", err)
	}
	if tour.Author != actor.ID && !actor.Role.IsAdmin() {
		return apperr.Forbidden("you can only delete your own tours")
	}

	if err := s.tours.DeleteTour(ctx, tourID); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("tour not found")
		}
		return apperr.Internal("failed to delete tour", err)
	}

	images := tour.Images
	if tour.Thumbnail != "" {
		images = append(images, tour.Thumbnail)
	}
	s.destroyImages(ctx, images)
	return nil
}

func (s *TourService) destroyImages(ctx context.Context, urls []string) {
	if s.cld == nil {
		return
	}
	for _, url := range urls {
		if err := helpers.DeleteByURL(ctx, s.cld, url); err != nil {
			s.logger.Warn("failed to delete cloudinary asset", "url", url, "error", err)
		}
	}
}
