package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TourColName = "tours"

type TourStatus string

const (
	TourPublic    TourStatus = "PUBLIC"
	TourPrivate   TourStatus = "PRIVATE"
	TourHold      TourStatus = "HOLD"
	TourSuspended TourStatus = "SUSPENDED"
)

var TourSearchableFields = []string{"title", "description"}

var (
	TourCategories = []string{"Food", "Art", "Adventure", "History", "Nature", "Other"}
	TourLanguages  = []string{"English", "Spanish", "French", "German", "Other"}
)

type Tour struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required"`
	Slug            string             `bson:"slug" json:"slug"`
	Description     string             `bson:"description" json:"description"`
	Itinerary       string             `bson:"itinerary,omitempty" json:"itinerary,omitempty"`
	Fee             float64            `bson:"fee" json:"fee" validate:"gte=0"`
	DurationHours   int                `bson:"duration_hours" json:"durationHours"`
	MeetingPoint    string             `bson:"meeting_point,omitempty" json:"meetingPoint,omitempty"`
	MaxGroupSize    int                `bson:"max_group_size" json:"maxGroupSize"`
	Thumbnail       string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
	Author          primitive.ObjectID `bson:"author" json:"author"`
	Language        string             `bson:"language" json:"language"`
	Category        string             `bson:"category" json:"category"`
	DestinationCity string             `bson:"destination_city" json:"destinationCity"`
	Status          TourStatus         `bson:"status" json:"status"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// TourPatch is an explicit partial update: only non-nil fields are written.
type TourPatch struct {
	Title           *string     `json:"title,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Itinerary       *string     `json:"itinerary,omitempty"`
	Fee             *float64    `json:"fee,omitempty"`
	DurationHours   *int        `json:"durationHours,omitempty"`
	MeetingPoint    *string     `json:"meetingPoint,omitempty"`
	MaxGroupSize    *int        `json:"maxGroupSize,omitempty"`
	Language        *string     `json:"language,omitempty"`
	Category        *string     `json:"category,omitempty"`
	DestinationCity *string     `json:"destinationCity,omitempty"`
	Status          *TourStatus `json:"status,omitempty"`
	IsActive        *bool       `json:"isActive,omitempty"`
}

func (p TourPatch) SetDoc() bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Itinerary != nil {
		set["itinerary"] = *p.Itinerary
	}
	if p.Fee != nil {
		set["fee"] = *p.Fee
	}
	if p.DurationHours != nil {
		set["duration_hours"] = *p.DurationHours
	}
	if p.MeetingPoint != nil {
		set["meeting_point"] = *p.MeetingPoint
	}
	if p.MaxGroupSize != nil {
		set["max_group_size"] = *p.MaxGroupSize
	}
	if p.Language != nil {
		set["language"] = *p.Language
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.DestinationCity != nil {
		set["destination_city"] = *p.DestinationCity
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}
	return set
}

// TourRef is the slim projection embedded in populated responses.
type TourRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
	Fee   float64            `bson:"fee" json:"fee"`
}

// TourAuthor is a tour's author merged with their review statistics.
type TourAuthor struct {
	UserRef     `bson:",inline"`
	ReviewCount int64   `json:"review_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// TourWithAuthor is a listing row: the tour plus its populated author.
type TourWithAuthor struct {
	Tour      `bson:",inline"`
	AuthorDoc *TourAuthor `json:"authorDetail,omitempty"`
}
