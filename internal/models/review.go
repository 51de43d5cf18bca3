package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ReviewColName = "reviews"

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	Booking   primitive.ObjectID `bson:"booking" json:"booking"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Guide     primitive.ObjectID `bson:"guide" json:"guide"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ReviewDetail is a review with its references populated.
type ReviewDetail struct {
	Review   `bson:",inline"`
	UserDoc  *UserRef `bson:"user_doc,omitempty" json:"userDetail,omitempty"`
	TourDoc  *TourRef `bson:"tour_doc,omitempty" json:"tourDetail,omitempty"`
	GuideDoc *UserRef `bson:"guide_doc,omitempty" json:"guideDetail,omitempty"`
}

// GuideReviewStats is the aggregated rating summary for one guide.
type GuideReviewStats struct {
	GuideID     primitive.ObjectID `bson:"guide_id" json:"guideId"`
	ReviewCount int64              `bson:"review_count" json:"review_count"`
	AvgRating   float64            `bson:"avg_rating" json:"avg_rating"`
}
