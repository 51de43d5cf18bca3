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

type ReviewRepo interface {
	InsertReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, set bson.M) (*Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	ListReviews(ctx context.Context, base bson.M, params map[string]string) ([]*ReviewDetail, *Meta, error)
	AggregateGuideStats(ctx context.Context, guideIDs []primitive.ObjectID) (map[primitive.ObjectID]*GuideReviewStats, error)
	WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error
}

func (mdb *MongodbRepo) InsertReview(ctx context.Context, review *Review) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, err
	}

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, review); err != nil {
		// raw error so the service can detect the unique booking index
		return nil, err
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, err
	}

	var review Review
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (mdb *MongodbRepo) UpdateReview(ctx context.Context, id primitive.ObjectID, set bson.M) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, err
	}

	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Review
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting review: %v", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (mdb *MongodbRepo) ListReviews(ctx context.Context, base bson.M, params map[string]string) ([]*ReviewDetail, *Meta, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, nil, err
	}

	qb := NewQueryBuilder(col, base, params).
		Search([]string{"comment"}).
		Filter().
		Sort().
		Paginate()

	var reviews []*Review
	if err := qb.Build(ctx, &reviews); err != nil {
		return nil, nil, err
	}
	meta, err := qb.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}

	details, err := mdb.populateReviews(ctx, reviews)
	if err != nil {
		return nil, nil, err
	}
	return details, meta, nil
}

func (mdb *MongodbRepo) populateReviews(ctx context.Context, reviews []*Review) ([]*ReviewDetail, error) {
	if len(reviews) == 0 {
		return []*ReviewDetail{}, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(reviews)*2)
	tourIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.User, r.Guide)
		tourIDs = append(tourIDs, r.Tour)
	}

	users, err := mdb.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[primitive.ObjectID]*UserRef, len(users))
	for _, u := range users {
		userMap[u.ID] = &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Picture: u.Picture}
	}

	tourMap, err := mdb.tourRefsByIDs(ctx, tourIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		details = append(details, &ReviewDetail{
			Review:   *r,
			UserDoc:  userMap[r.User],
			GuideDoc: userMap[r.Guide],
			TourDoc:  tourMap[r.Tour],
		})
	}
	return details, nil
}

// AggregateGuideStats computes review count and average rating per guide.
func (mdb *MongodbRepo) AggregateGuideStats(ctx context.Context, guideIDs []primitive.ObjectID) (map[primitive.ObjectID]*GuideReviewStats, error) {
	result := map[primitive.ObjectID]*GuideReviewStats{}
	if len(guideIDs) == 0 {
		return result, nil
	}
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"guide": bson.M{"$in": guideIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$guide",
			"review_count": bson.M{"$sum": 1},
			"avg_rating":   bson.M{"$avg": "$rating"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"guide_id":     "$_id",
			"review_count": 1,
			"avg_rating":   bson.M{"$round": bson.A{"$avg_rating", 2}},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating guide stats: %v", err)
	}
	defer cursor.Close(ctx)

	var stats []*GuideReviewStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("error decoding guide stats: %v", err)
	}
	for _, s := range stats {
		result[s.GuideID] = s
	}
	return result, nil
}

// reviewsByIDs supports booking population.
func (mdb *MongodbRepo) reviewsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Review, error) {
	result := map[primitive.ObjectID]*Review{}
	if len(ids) == 0 {
		return result, nil
	}
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding reviews: %v", err)
	}
	defer cursor.Close(ctx)

	var reviews []*Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %v", err)
	}
	for _, r := range reviews {
		result[r.ID] = r
	}
	return result, nil
}
