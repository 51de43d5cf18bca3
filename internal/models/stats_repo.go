package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatsRepo interface {
	UserStats(ctx context.Context, windows StatsWindows) (*UserStats, error)
	BookingStats(ctx context.Context, windows StatsWindows) (*BookingStats, error)
	PaymentStats(ctx context.Context) (*PaymentStats, error)
	TourStats(ctx context.Context) (*TourStats, error)
}

func (mdb *MongodbRepo) UserStats(ctx context.Context, windows StatsWindows) (*UserStats, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{}
	counts := []struct {
		filter bson.M
		dest   *int64
	}{
		{bson.M{}, &stats.TotalUsers},
		{bson.M{"is_active": StateActive}, &stats.TotalActiveUsers},
		{bson.M{"is_active": StateInactive}, &stats.TotalInactiveUsers},
		{bson.M{"is_active": StateBlocked}, &stats.TotalBlockedUsers},
		{bson.M{"created_at": bson.M{"$gte": windows.SevenDaysAgo}}, &stats.NewUsersInLast7Days},
		{bson.M{"created_at": bson.M{"$gte": windows.ThirtyDaysAgo}}, &stats.NewUsersInLast30Days},
	}
	for _, c := range counts {
		n, err := col.CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("error counting users: %v", err)
		}
		*c.dest = n
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating users by role: %v", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &stats.UsersByRole); err != nil {
		return nil, fmt.Errorf("error decoding role counts: %v", err)
	}

	return stats, nil
}

func (mdb *MongodbRepo) BookingStats(ctx context.Context, windows StatsWindows) (*BookingStats, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	stats := &BookingStats{}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error counting bookings: %v", err)
	}
	stats.TotalBookings = total

	last7, err := col.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": windows.SevenDaysAgo}})
	if err != nil {
		return nil, fmt.Errorf("error counting recent bookings: %v", err)
	}
	stats.BookingsInLast7Days = last7

	last30, err := col.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": windows.ThirtyDaysAgo}})
	if err != nil {
		return nil, fmt.Errorf("error counting recent bookings: %v", err)
	}
	stats.BookingsInLast30Days = last30

	byStatus := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, byStatus)
	if err != nil {
		return nil, fmt.Errorf("error aggregating bookings by status: %v", err)
	}
	if err := cursor.All(ctx, &stats.BookingsByStatus); err != nil {
		cursor.Close(ctx)
		return nil, fmt.Errorf("error decoding status counts: %v", err)
	}

	uniqueUsers := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$user"}}},
		{{Key: "$count", Value: "count"}},
	}
	cursor, err = col.Aggregate(ctx, uniqueUsers)
	if err != nil {
		return nil, fmt.Errorf("error counting unique booking users: %v", err)
	}
	var uniqueRows []struct {
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &uniqueRows); err != nil {
		cursor.Close(ctx)
		return nil, fmt.Errorf("error decoding unique user count: %v", err)
	}
	if len(uniqueRows) > 0 {
		stats.UniqueBookingUsers = uniqueRows[0].Count
	}

	topTours := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$tour", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: 10}},
		{{Key: "$lookup", Value: bson.M{
			"from":         TourColName,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "tour",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$tour", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{"count": 1, "title": "$tour.title"}}},
	}
	cursor, err = col.Aggregate(ctx, topTours)
	if err != nil {
		return nil, fmt.Errorf("error aggregating top tours: %v", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &stats.TopBookedTours); err != nil {
		return nil, fmt.Errorf("error decoding top tours: %v", err)
	}

	return stats, nil
}

func (mdb *MongodbRepo) PaymentStats(ctx context.Context) (*PaymentStats, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	stats := &PaymentStats{}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error counting payments: %v", err)
	}
	stats.TotalPayments = total

	byStatus := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, byStatus)
	if err != nil {
		return nil, fmt.Errorf("error aggregating payments by status: %v", err)
	}
	if err := cursor.All(ctx, &stats.PaymentsByStatus); err != nil {
		cursor.Close(ctx)
		return nil, fmt.Errorf("error decoding payment status counts: %v", err)
	}

	revenue := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": PaymentPaid}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
			"avg":   bson.M{"$avg": "$amount"},
		}}},
	}
	cursor, err = col.Aggregate(ctx, revenue)
	if err != nil {
		return nil, fmt.Errorf("error aggregating revenue: %v", err)
	}
	defer cursor.Close(ctx)
	var revenueRows []struct {
		Total float64 `bson:"total"`
		Avg   float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &revenueRows); err != nil {
		return nil, fmt.Errorf("error decoding revenue: %v", err)
	}
	if len(revenueRows) > 0 {
		stats.TotalRevenue = revenueRows[0].Total
		stats.AvgPaymentAmount = revenueRows[0].Avg
	}

	return stats, nil
}

func (mdb *MongodbRepo) TourStats(ctx context.Context) (*TourStats, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, err
	}

	stats := &TourStats{}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error counting tours: %v", err)
	}
	stats.TotalTours = total

	active, err := col.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("error counting active tours: %v", err)
	}
	stats.TotalActiveTours = active

	byCategory := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	cursor, err := col.Aggregate(ctx, byCategory)
	if err != nil {
		return nil, fmt.Errorf("error aggregating tours by category: %v", err)
	}
	if err := cursor.All(ctx, &stats.ToursByCategory); err != nil {
		cursor.Close(ctx)
		return nil, fmt.Errorf("error decoding category counts: %v", err)
	}

	avgFee := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$fee"}}}},
	}
	cursor, err = col.Aggregate(ctx, avgFee)
	if err != nil {
		return nil, fmt.Errorf("error aggregating tour fees: %v", err)
	}
	var feeRows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &feeRows); err != nil {
		cursor.Close(ctx)
		return nil, fmt.Errorf("error decoding fee average: %v", err)
	}
	if len(feeRows) > 0 {
		stats.AvgTourFee = feeRows[0].Avg
	}

	reviewCol, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, err
	}
	topGuides := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          "$guide",
			"review_count": bson.M{"$sum": 1},
			"avg_rating":   bson.M{"$avg": "$rating"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_rating", Value: -1}, {Key: "review_count", Value: -1}}}},
		{{Key: "$limit", Value: 10}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"guide_id":     "$_id",
			"review_count": 1,
			"avg_rating":   bson.M{"$round": bson.A{"$avg_rating", 2}},
		}}},
	}
	cursor, err = reviewCol.Aggregate(ctx, topGuides)
	if err != nil {
		return nil, fmt.Errorf("error aggregating top guides: %v", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &stats.TopReviewedGuides); err != nil {
		return nil, fmt.Errorf("error decoding top guides: %v", err)
	}

	return stats, nil
}
