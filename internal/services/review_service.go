package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateReviewPayload struct {
	BookingID string `json:"bookingId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type ReviewPatch struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

type ReviewService struct {
	reviews  models.ReviewRepo
	bookings models.BookingRepo
	logger   *slog.Logger
}

func NewReviewService(reviews models.ReviewRepo, bookings models.BookingRepo, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, logger: logger}
}

// CreateReview lets the booking tourist review a completed, paid booking.
// The transactional read-check and the unique index on booking together
// guarantee at most one review per booking.
func (s *ReviewService) CreateReview(ctx context.Context, actor Actor, payload CreateReviewPayload) (*models.Review, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid review payload: %v", err))
	}
	bookingID, err := primitive.ObjectIDFromHex(payload.BookingID)
	if err != nil {
		return nil, apperr.BadRequest("invalid booking id")
	}

	now := time.Now()
	review := &models.Review{
		Booking:   bookingID,
		User:      actor.ID,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.reviews.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		booking, err := s.bookings.GetBookingByID(sc, bookingID)
		if err != nil {
			return err
		}
		if booking.User != actor.ID {
			return apperr.Forbidden("only the booking tourist can review it")
		}
		if booking.Status != models.BookingCompleted || booking.PaymentStatus != models.PaymentPaid {
			return apperr.BadRequest("only completed and paid bookings can be reviewed")
		}
		if !booking.Review.IsZero() {
			return apperr.Conflict("this booking has already been reviewed")
		}

		review.Tour = booking.Tour
		review.Guide = booking.Guide
		if _, err := s.reviews.InsertReview(sc, review); err != nil {
			return err
		}

		_, err = s.bookings.UpdateBookingFields(sc, booking.ID, bson.M{"review": review.ID})
		return err
	})
	if err != nil {
		if appErr, ok := apperr.From(err); ok {
			return nil, appErr
		}
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("booking not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("this booking has already been reviewed")
		}
		return nil, apperr.Internal("failed to create review", err)
	}

	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (*models.Review, error) {
	reviewID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid review id")
	}

	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal("failed to load review", err)
	}
	return review, nil
}

// UpdateReview lets the authoring tourist adjust rating or comment.
func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, id string, patch ReviewPatch) (*models.Review, error) {
	reviewID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid review id")
	}

	set := bson.M{}
	if patch.Rating != nil {
		if *patch.Rating < 1 || *patch.Rating > 5 {
			return nil, apperr.BadRequest("rating must be between 1 and 5")
		}
		set["rating"] = *patch.Rating
	}
	if patch.Comment != nil {
		set["comment"] = *patch.Comment
	}
	if len(set) == 0 {
		return nil, apperr.BadRequest("nothing to update")
	}

	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal("failed to load review", err)
	}
	if review.User != actor.ID {
		return nil, apperr.Forbidden("you can only update your own reviews")
	}

	updated, err := s.reviews.UpdateReview(ctx, reviewID, set)
	if err != nil {
		return nil, apperr.Internal("failed to update review", err)
	}
	return updated, nil
}

// DeleteReview removes the review and clears the booking's back-ref in
// one transaction.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id string) error {
	reviewID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid review id")
	}

	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("review not found")
		}
		return apperr.Internal("failed to load review", err)
	}
	if review.User != actor.ID {
		return apperr.Forbidden("you can only delete your own reviews")
	}

	err = s.reviews.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.reviews.DeleteReview(sc, reviewID); err != nil {
			return err
		}
		_, err := s.bookings.UpdateBookingFields(sc, review.Booking, bson.M{"review": nil})
		return err
	})
	if err != nil {
		return apperr.Internal("failed to delete review", err)
	}
	return nil
}

// ListReviews supports tour and guide scoping through query params.
func (s *ReviewService) ListReviews(ctx context.Context, params map[string]string) ([]*models.ReviewDetail, *models.Meta, error) {
	base := bson.M{}
	if tour := params["tour"]; tour != "" {
		id, err := primitive.ObjectIDFromHex(tour)
		if err != nil {
			return nil, nil, apperr.BadRequest("invalid tour id")
		}
		base["tour"] = id
		delete(params, "tour")
	}
	if guide := params["guide"]; guide != "" {
		id, err := primitive.ObjectIDFromHex(guide)
		if err != nil {
			return nil, nil, apperr.BadRequest("invalid guide id")
		}
		base["guide"] = id
		delete(params, "guide")
	}

	reviews, meta, err := s.reviews.ListReviews(ctx, base, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list reviews", err)
	}
	return reviews, meta, nil
}

// MyReviews lists the reviews the actor has written.
func (s *ReviewService) MyReviews(ctx context.Context, actor Actor, params map[string]string) ([]*models.ReviewDetail, *models.Meta, error) {
	reviews, meta, err := s.reviews.ListReviews(ctx, bson.M{"user": actor.ID}, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list reviews", err)
	}
	return reviews, meta, nil
}
