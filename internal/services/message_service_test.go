package services

import (
	"context"
	"testing"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateMessageRequest(t *testing.T) {
	touristID := primitive.NewObjectID()
	guideID := primitive.NewObjectID()

	var inserted *models.MessageRequest
	messages := &mockMessageRepo{
		insertMessageRequestFunc: func(ctx context.Context, req *models.MessageRequest) (*models.MessageRequest, error) {
			req.ID = primitive.NewObjectID()
			inserted = req
			return req, nil
		},
	}
	svc := NewMessageService(messages, &mockUserRepo{}, testLogger())

	_, err := svc.CreateRequest(context.Background(), Actor{ID: touristID, Role: models.RoleTourist}, CreateMessageRequestPayload{
		GuideID:        guideID.Hex(),
		TourDate:       "2026-09-20",
		MeetingTime:    "10:00",
		Guests:         "4",
		InterestedTour: "Old Town Food Walk",
		Message:        "Could we start earlier?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted.User != touristID || inserted.Guide != guideID {
		t.Errorf("request should link sender and guide, got %+v", inserted)
	}
}

func TestCreateMessageRequest_Rejections(t *testing.T) {
	svc := NewMessageService(&mockMessageRepo{}, &mockUserRepo{}, testLogger())
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleTourist}

	valid := CreateMessageRequestPayload{
		GuideID:        primitive.NewObjectID().Hex(),
		TourDate:       "2026-09-20",
		MeetingTime:    "10:00",
		Guests:         "4",
		InterestedTour: "Old Town Food Walk",
		Message:        "Could we start earlier?",
	}

	missing := valid
	missing.Message = ""
	_, err := svc.CreateRequest(context.Background(), actor, missing)
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 400 {
		t.Errorf("expected 400 for missing message, got %v", err)
	}

	badGuide := valid
	badGuide.GuideID = "not-a-hex-id"
	_, err = svc.CreateRequest(context.Background(), actor, badGuide)
	appErr, ok = apperr.From(err)
	if !ok || appErr.HTTPStatus != 400 {
		t.Errorf("expected 400 for bad guide id, got %v", err)
	}
}

func TestGuideRequests(t *testing.T) {
	guideID := primitive.NewObjectID()
	senderID := primitive.NewObjectID()

	var listedGuide primitive.ObjectID
	messages := &mockMessageRepo{
		listGuideMessageRequestsFunc: func(ctx context.Context, id primitive.ObjectID) ([]*models.MessageRequest, error) {
			listedGuide = id
			return []*models.MessageRequest{
				{ID: primitive.NewObjectID(), Guide: id, User: senderID, Message: "First"},
				{ID: primitive.NewObjectID(), Guide: id, User: senderID, Message: "Second"},
			}, nil
		},
	}
	users := &mockUserRepo{
		getUsersByIDsFunc: func(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
			if len(ids) != 1 {
				t.Errorf("expected one deduplicated sender, got %d", len(ids))
			}
			return []*models.User{{ID: senderID, Name: "Ava", Email: "ava@example.com"}}, nil
		},
	}
	svc := NewMessageService(messages, users, testLogger())

	details, err := svc.GuideRequests(context.Background(), Actor{ID: guideID, Role: models.RoleGuide})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listedGuide != guideID {
		t.Error("the list must be scoped to the acting guide")
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(details))
	}
	for _, d := range details {
		if d.UserDoc == nil || d.UserDoc.Name != "Ava" || d.UserDoc.Email != "ava@example.com" {
			t.Errorf("expected populated sender, got %+v", d.UserDoc)
		}
	}
}
