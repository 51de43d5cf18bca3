package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsWindows carries the date boundaries for windowed counts. They are
// computed fresh for every call, never cached at process start.
type StatsWindows struct {
	SevenDaysAgo  time.Time
	ThirtyDaysAgo time.Time
}

type RoleCount struct {
	Role  string `bson:"_id" json:"role"`
	Count int64  `bson:"count" json:"count"`
}

type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

type TourBookingCount struct {
	TourID primitive.ObjectID `bson:"_id" json:"tourId"`
	Title  string             `bson:"title" json:"title"`
	Count  int64              `bson:"count" json:"count"`
}

type UserStats struct {
	TotalUsers           int64       `json:"totalUsers"`
	TotalActiveUsers     int64       `json:"totalActiveUsers"`
	TotalInactiveUsers   int64       `json:"totalInactiveUsers"`
	TotalBlockedUsers    int64       `json:"totalBlockedUsers"`
	NewUsersInLast7Days  int64       `json:"newUsersInLast7Days"`
	NewUsersInLast30Days int64       `json:"newUsersInLast30Days"`
	UsersByRole          []RoleCount `json:"usersByRole"`
}

type BookingStats struct {
	TotalBookings           int64              `json:"totalBookings"`
	BookingsByStatus        []StatusCount      `json:"bookingsByStatus"`
	UniqueBookingUsers      int64              `json:"uniqueBookingUsers"`
	BookingsInLast7Days     int64              `json:"bookingsInLast7Days"`
	BookingsInLast30Days    int64              `json:"bookingsInLast30Days"`
	TopBookedTours          []TourBookingCount `json:"topBookedTours"`
}

type PaymentStats struct {
	TotalPayments    int64         `json:"totalPayments"`
	PaymentsByStatus []StatusCount `json:"paymentsByStatus"`
	TotalRevenue     float64       `json:"totalRevenue"`
	AvgPaymentAmount float64       `json:"avgPaymentAmount"`
}

type TourStats struct {
	TotalTours        int64               `json:"totalTours"`
	TotalActiveTours  int64               `json:"totalActiveTours"`
	ToursByCategory   []CategoryCount     `json:"toursByCategory"`
	AvgTourFee        float64             `json:"avgTourFee"`
	TopReviewedGuides []*GuideReviewStats `json:"topReviewedGuides"`
}
