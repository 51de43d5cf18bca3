package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	SetPaymentRef(ctx context.Context, bookingID, paymentID primitive.ObjectID) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	GetBookingDetail(ctx context.Context, id primitive.ObjectID) (*BookingDetail, error)
	FindOwnBooking(ctx context.Context, id, userID primitive.ObjectID) (*Booking, error)
	UpdateBookingFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Booking, error)
	AppendStatus(ctx context.Context, id primitive.ObjectID, log StatusLog) (*Booking, error)
	ListBookings(ctx context.Context, base bson.M, params map[string]string) ([]*BookingDetail, *Meta, error)
	GuideBookingDates(ctx context.Context, guideID primitive.ObjectID) ([]string, error)
	WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}
	return booking, nil
}

func (mdb *MongodbRepo) SetPaymentRef(ctx context.Context, bookingID, paymentID primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Booking
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": bookingID},
		bson.M{"$set": bson.M{"payment": paymentID, "updated_at": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingDetail fetches one booking with user/tour/guide/payment/review
// resolved through $lookup stages.
func (mdb *MongodbRepo) GetBookingDetail(ctx context.Context, id primitive.ObjectID) (*BookingDetail, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	lookup := func(from, local, as string) bson.D {
		return bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   local,
			"foreignField": "_id",
			"as":           as,
		}}}
	}
	unwind := func(path string) bson.D {
		return bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + path,
			"preserveNullAndEmptyArrays": true,
		}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		lookup(UserColName, "user", "user_doc"),
		unwind("user_doc"),
		lookup(TourColName, "tour", "tour_doc"),
		unwind("tour_doc"),
		lookup(UserColName, "guide", "guide_doc"),
		unwind("guide_doc"),
		lookup(PaymentColName, "payment", "payment_doc"),
		unwind("payment_doc"),
		lookup(ReviewColName, "review", "review_doc"),
		unwind("review_doc"),
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating booking: %v", err)
	}
	defer cursor.Close(ctx)

	var details []*BookingDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("error decoding booking detail: %v", err)
	}
	if len(details) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return details[0], nil
}

// FindOwnBooking matches on both id and owner, so a mismatch surfaces as
// not-found rather than forbidden.
func (mdb *MongodbRepo) FindOwnBooking(ctx context.Context, id, userID primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (mdb *MongodbRepo) UpdateBookingFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Booking
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AppendStatus moves the booking into log.Status and pushes an audit entry.
// The status_logs array only ever grows.
func (mdb *MongodbRepo) AppendStatus(ctx context.Context, id primitive.ObjectID, log StatusLog) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Booking
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":  bson.M{"status": log.Status, "updated_at": time.Now()},
			"$push": bson.M{"status_logs": log},
		},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) ListBookings(ctx context.Context, base bson.M, params map[string]string) ([]*BookingDetail, *Meta, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, nil, err
	}

	qb := NewQueryBuilder(col, base, params).
		Search(BookingSearchableFields).
		Filter().
		Sort().
		Fields().
		Paginate()

	var bookings []*Booking
	if err := qb.Build(ctx, &bookings); err != nil {
		return nil, nil, err
	}
	meta, err := qb.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}

	details, err := mdb.populateBookings(ctx, bookings)
	if err != nil {
		return nil, nil, err
	}
	return details, meta, nil
}

// populateBookings resolves references for a page of bookings with one $in
// query per collection, joined in application code.
func (mdb *MongodbRepo) populateBookings(ctx context.Context, bookings []*Booking) ([]*BookingDetail, error) {
	if len(bookings) == 0 {
		return []*BookingDetail{}, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(bookings)*2)
	tourIDs := make([]primitive.ObjectID, 0, len(bookings))
	paymentIDs := make([]primitive.ObjectID, 0, len(bookings))
	reviewIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.User, b.Guide)
		tourIDs = append(tourIDs, b.Tour)
		if !b.Payment.IsZero() {
			paymentIDs = append(paymentIDs, b.Payment)
		}
		if !b.Review.IsZero() {
			reviewIDs = append(reviewIDs, b.Review)
		}
	}

	users, err := mdb.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[primitive.ObjectID]*UserRef, len(users))
	for _, u := range users {
		userMap[u.ID] = &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address, Picture: u.Picture}
	}

	tourMap, err := mdb.tourRefsByIDs(ctx, tourIDs)
	if err != nil {
		return nil, err
	}
	paymentMap, err := mdb.paymentsByIDs(ctx, paymentIDs)
	if err != nil {
		return nil, err
	}
	reviewMap, err := mdb.reviewsByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		details = append(details, &BookingDetail{
			Booking:    *b,
			UserDoc:    userMap[b.User],
			GuideDoc:   userMap[b.Guide],
			TourDoc:    tourMap[b.Tour],
			PaymentDoc: paymentMap[b.Payment],
			ReviewDoc:  reviewMap[b.Review],
		})
	}
	return details, nil
}

func (mdb *MongodbRepo) tourRefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*TourRef, error) {
	result := map[primitive.ObjectID]*TourRef{}
	if len(ids) == 0 {
		return result, nil
	}
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding tours: %v", err)
	}
	defer cursor.Close(ctx)

	var refs []*TourRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, fmt.Errorf("error decoding tours: %v", err)
	}
	for _, ref := range refs {
		result[ref.ID] = ref
	}
	return result, nil
}

func (mdb *MongodbRepo) GuideBookingDates(ctx context.Context, guideID primitive.ObjectID) ([]string, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetProjection(bson.D{{Key: "date", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"guide": guideID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding guide bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date string `bson:"date"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding guide bookings: %v", err)
	}

	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date)
	}
	return dates, nil
}
