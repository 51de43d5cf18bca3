package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateMessageRequestPayload struct {
	GuideID            string `json:"guideId" validate:"required"`
	TourDate           string `json:"tourDate" validate:"required"`
	MeetingTime        string `json:"meetingTime" validate:"required"`
	Guests             string `json:"guests" validate:"required"`
	InterestedTour     string `json:"interestedTour" validate:"required"`
	Message            string `json:"message" validate:"required"`
	HotelAccommodation string `json:"hotelAccommodation"`
	Area               string `json:"area"`
}

type MessageService struct {
	messages models.MessageRepo
	users    models.UserRepo
	logger   *slog.Logger
}

func NewMessageService(messages models.MessageRepo, users models.UserRepo, logger *slog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, logger: logger}
}

// CreateRequest records a contact request from the acting tourist to a
// guide.
func (s *MessageService) CreateRequest(ctx context.Context, actor Actor, payload CreateMessageRequestPayload) (*models.MessageRequest, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid message request: %v", err))
	}

	guideID, err := primitive.ObjectIDFromHex(payload.GuideID)
	if err != nil {
		return nil, apperr.BadRequest("invalid guide id")
	}
	if _, err := s.users.GetUserByID(ctx, guideID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("guide not found")
		}
		return nil, apperr.Internal("failed to load guide", err)
	}

	now := time.Now()
	req := &models.MessageRequest{
		TourDate:           payload.TourDate,
		MeetingTime:        payload.MeetingTime,
		Guests:             payload.Guests,
		HotelAccommodation: payload.HotelAccommodation,
		InterestedTour:     payload.InterestedTour,
		Message:            payload.Message,
		Area:               payload.Area,
		Guide:              guideID,
		User:               actor.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.messages.InsertMessageRequest(ctx, req)
	if err != nil {
		return nil, apperr.Internal("failed to create message request", err)
	}
	return created, nil
}

// GuideRequests lists the contact requests addressed to the acting user,
// with each sender populated.
func (s *MessageService) GuideRequests(ctx context.Context, actor Actor) ([]*models.MessageRequestDetail, error) {
	requests, err := s.messages.ListGuideMessageRequests(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list message requests", err)
	}

	senderIDs := make([]primitive.ObjectID, 0, len(requests))
	seen := map[primitive.ObjectID]bool{}
	for _, r := range requests {
		if !seen[r.User] {
			seen[r.User] = true
			senderIDs = append(senderIDs, r.User)
		}
	}
	senders, err := s.users.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, apperr.Internal("failed to load senders", err)
	}
	byID := map[primitive.ObjectID]*models.User{}
	for _, u := range senders {
		byID[u.ID] = u
	}

	details := make([]*models.MessageRequestDetail, 0, len(requests))
	for _, r := range requests {
		detail := &models.MessageRequestDetail{MessageRequest: *r}
		if u, ok := byID[r.User]; ok {
			detail.UserDoc = &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		details = append(details, detail)
	}
	return details, nil
}
