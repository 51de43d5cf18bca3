package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BookingColName = "bookings"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingDeclined  BookingStatus = "DECLINED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingDeclined, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

var BookingSearchableFields = []string{"date", "phone", "address"}

// StatusLog is one entry of the append-only audit trail. Entries are only
// ever pushed, never rewritten.
type StatusLog struct {
	Status    BookingStatus      `bson:"status" json:"status"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updatedBy"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tour          primitive.ObjectID `bson:"tour" json:"tour"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Guide         primitive.ObjectID `bson:"guide" json:"guide"`
	Date          string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time          string             `bson:"time" json:"time"` // HH:mm
	GroupSize     int                `bson:"group_size" json:"groupSize"`
	Phone         string             `bson:"phone" json:"phone"`
	Address       string             `bson:"address" json:"address"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TotalPrice    float64            `bson:"total_price" json:"totalPrice"`
	Payment       primitive.ObjectID `bson:"payment,omitempty" json:"payment,omitempty"`
	Review        primitive.ObjectID `bson:"review,omitempty" json:"review,omitempty"`
	PaymentStatus PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	Status        BookingStatus      `bson:"status" json:"status"`
	StatusLogs    []StatusLog        `bson:"status_logs" json:"statusLogs"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BookingDetail is a booking with its references populated.
type BookingDetail struct {
	Booking    `bson:",inline"`
	UserDoc    *UserRef `bson:"user_doc,omitempty" json:"userDetail,omitempty"`
	TourDoc    *TourRef `bson:"tour_doc,omitempty" json:"tourDetail,omitempty"`
	GuideDoc   *UserRef `bson:"guide_doc,omitempty" json:"guideDetail,omitempty"`
	PaymentDoc *Payment `bson:"payment_doc,omitempty" json:"paymentDetail,omitempty"`
	ReviewDoc  *Review  `bson:"review_doc,omitempty" json:"reviewDetail,omitempty"`
}
