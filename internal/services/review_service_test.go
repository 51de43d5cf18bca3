package services

import (
	"context"
	"testing"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func reviewableBooking(userID primitive.ObjectID) *models.Booking {
	return &models.Booking{
		ID:            primitive.NewObjectID(),
		Tour:          primitive.NewObjectID(),
		User:          userID,
		Guide:         primitive.NewObjectID(),
		Status:        models.BookingCompleted,
		PaymentStatus: models.PaymentPaid,
	}
}

func TestCreateReview(t *testing.T) {
	userID := primitive.NewObjectID()
	booking := reviewableBooking(userID)

	var inserted *models.Review
	var bookingSet bson.M
	reviews := &mockReviewRepo{
		insertReviewFunc: func(ctx context.Context, r *models.Review) (*models.Review, error) {
			r.ID = primitive.NewObjectID()
			inserted = r
			return r, nil
		},
	}
	bookings := &mockBookingRepo{
		getBookingByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return booking, nil
		},
		updateBookingFieldsFunc: func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
			bookingSet = set
			return booking, nil
		},
	}

	svc := NewReviewService(reviews, bookings, testLogger())
	review, err := svc.CreateReview(context.Background(), Actor{ID: userID, Role: models.RoleTourist}, CreateReviewPayload{
		BookingID: booking.ID.Hex(),
		Rating:    5,
		Comment:   "Fantastic guide, would book again.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted.Tour != booking.Tour || inserted.Guide != booking.Guide {
		t.Error("review should inherit tour and guide from the booking")
	}
	if bookingSet["review"] != review.ID {
		t.Errorf("booking should link back to the review, got %v", bookingSet)
	}
}

func TestCreateReview_Rejections(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name       string
		booking    func() *models.Booking
		rating     int
		wantStatus int
	}{
		{
			name: "booking not completed",
			booking: func() *models.Booking {
				b := reviewableBooking(userID)
				b.Status = models.BookingConfirmed
				return b
			},
			rating:     4,
			wantStatus: 400,
		},
		{
			name: "booking not paid",
			booking: func() *models.Booking {
				b := reviewableBooking(userID)
				b.PaymentStatus = models.PaymentFailed
				return b
			},
			rating:     4,
			wantStatus: 400,
		},
		{
			name: "already reviewed",
			booking: func() *models.Booking {
				b := reviewableBooking(userID)
				b.Review = primitive.NewObjectID()
				return b
			},
			rating:     4,
			wantStatus: 409,
		},
		{
			name:       "rating out of range",
			booking:    func() *models.Booking { return reviewableBooking(userID) },
			rating:     6,
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := tt.booking()
			bookings := &mockBookingRepo{
				getBookingByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
					return booking, nil
				},
			}
			svc := NewReviewService(&mockReviewRepo{}, bookings, testLogger())

			_, err := svc.CreateReview(context.Background(), Actor{ID: userID, Role: models.RoleTourist}, CreateReviewPayload{
				BookingID: booking.ID.Hex(),
				Rating:    tt.rating,
			})
			appErr, ok := apperr.From(err)
			if !ok || appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("expected %d, got %v", tt.wantStatus, err)
			}
		})
	}
}

func TestCreateReview_SomeoneElsesBooking(t *testing.T) {
	booking := reviewableBooking(primitive.NewObjectID())
	bookings := &mockBookingRepo{
		getBookingByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return booking, nil
		},
	}
	svc := NewReviewService(&mockReviewRepo{}, bookings, testLogger())
	_, err := svc.CreateReview(context.Background(), Actor{ID: primitive.NewObjectID(), Role: models.RoleTourist}, CreateReviewPayload{
		BookingID: booking.ID.Hex(),
		Rating:    5,
	})
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 403 {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCreateReview_UnknownBooking(t *testing.T) {
	svc := NewReviewService(&mockReviewRepo{}, &mockBookingRepo{}, testLogger())
	_, err := svc.CreateReview(context.Background(), Actor{ID: primitive.NewObjectID(), Role: models.RoleTourist}, CreateReviewPayload{
		BookingID: primitive.NewObjectID().Hex(),
		Rating:    5,
	})
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUpdateReview_Ownership(t *testing.T) {
	ownerID := primitive.NewObjectID()
	reviewID := primitive.NewObjectID()
	review := &models.Review{ID: reviewID, User: ownerID, Rating: 4}

	reviews := &mockReviewRepo{
		getReviewByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
			return review, nil
		},
		updateReviewFunc: func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error) {
			updated := *review
			if r, ok := set["rating"].(int); ok {
				updated.Rating = r
			}
			return &updated, nil
		},
	}
	svc := NewReviewService(reviews, &mockBookingRepo{}, testLogger())

	rating := 5
	updated, err := svc.UpdateReview(context.Background(), Actor{ID: ownerID, Role: models.RoleTourist}, reviewID.Hex(), ReviewPatch{Rating: &rating})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("expected rating 5, got %d", updated.Rating)
	}

	_, err = svc.UpdateReview(context.Background(), Actor{ID: primitive.NewObjectID(), Role: models.RoleTourist}, reviewID.Hex(), ReviewPatch{Rating: &rating})
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 403 {
		t.Fatalf("expected 403 for stranger, got %v", err)
	}

	// Only the author may touch a review, regardless of role.
	_, err = svc.UpdateReview(context.Background(), Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, reviewID.Hex(), ReviewPatch{Rating: &rating})
	appErr, ok = apperr.From(err)
	if !ok || appErr.HTTPStatus != 403 {
		t.Fatalf("expected 403 for admin, got %v", err)
	}
}

func TestMyReviews(t *testing.T) {
	userID := primitive.NewObjectID()
	var gotBase bson.M
	reviews := &mockReviewRepo{
		listReviewsFunc: func(ctx context.Context, base bson.M, params map[string]string) ([]*models.ReviewDetail, *models.Meta, error) {
			gotBase = base
			return []*models.ReviewDetail{}, &models.Meta{Page: 1, Limit: 10}, nil
		},
	}
	svc := NewReviewService(reviews, &mockBookingRepo{}, testLogger())

	_, _, err := svc.MyReviews(context.Background(), Actor{ID: userID, Role: models.RoleTourist}, map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBase["user"] != userID {
		t.Errorf("expected list scoped to the actor, got %v", gotBase)
	}
}

func TestDeleteReview_ClearsBookingRef(t *testing.T) {
	ownerID := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()
	reviewID := primitive.NewObjectID()
	review := &models.Review{ID: reviewID, User: ownerID, Booking: bookingID}

	var cleared bson.M
	reviews := &mockReviewRepo{
		getReviewByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
			return review, nil
		},
	}
	bookings := &mockBookingRepo{
		updateBookingFieldsFunc: func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
			if id != bookingID {
				t.Errorf("expected booking %s, got %s", bookingID.Hex(), id.Hex())
			}
			cleared = set
			return &models.Booking{ID: id}, nil
		},
	}
	svc := NewReviewService(reviews, bookings, testLogger())

	if err := svc.DeleteReview(context.Background(), Actor{ID: ownerID, Role: models.RoleTourist}, reviewID.Hex()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, present := cleared["review"]; !present || v != nil {
		t.Errorf("expected review ref cleared, got %v", cleared)
	}
}
