package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MessageRequestColName = "message_requests"

// MessageRequest is a tourist's contact request to a guide, sent before
// any booking exists.
type MessageRequest struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TourDate           string             `bson:"tour_date" json:"tourDate"`
	MeetingTime        string             `bson:"meeting_time" json:"meetingTime"`
	Guests             string             `bson:"guests" json:"guests"`
	HotelAccommodation string             `bson:"hotel_accommodation,omitempty" json:"hotelAccommodation,omitempty"`
	InterestedTour     string             `bson:"interested_tour" json:"interestedTour"`
	Message            string             `bson:"message" json:"message"`
	Area               string             `bson:"area,omitempty" json:"area,omitempty"`
	Guide              primitive.ObjectID `bson:"guide" json:"guide"`
	User               primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

// MessageRequestDetail carries the request with the sender populated.
type MessageRequestDetail struct {
	MessageRequest `bson:",inline"`
	UserDoc        *UserRef `bson:"-" json:"userDoc,omitempty"`
}
