package models

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TourRepo interface {
	CreateTour(ctx context.Context, tour *Tour) (*Tour, error)
	GetTourByID(ctx context.Context, id primitive.ObjectID) (*Tour, error)
	GetTourBySlug(ctx context.Context, slug string) (*Tour, error)
	SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	UpdateTour(ctx context.Context, id primitive.ObjectID, set bson.M) (*Tour, error)
	DeleteTour(ctx context.Context, id primitive.ObjectID) error
	ListTours(ctx context.Context, params map[string]string) ([]*Tour, *Meta, error)
	SearchTours(ctx context.Context, params map[string]string) ([]*Tour, *Meta, error)
}

func (mdb *MongodbRepo) CreateTour(ctx context.Context, tour *Tour) (*Tour, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, err
	}

	if tour.ID.IsZero() {
		tour.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, tour); err != nil {
		// raw error so the service can detect a slug index collision
		return nil, err
	}
	return tour, nil
}

func (mdb *MongodbRepo) GetTourByID(ctx context.Context, id primitive.ObjectID) (*Tour, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, err
	}

	var tour Tour
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

func (mdb *MongodbRepo) GetTourBySlug(ctx context.Context, slug string) (*Tour, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, err
	}

	var tour Tour
	if err := col.FindOne(ctx, bson.M{"slug": slug}).Decode(&tour); err != nil {
		return nil, err
	}
	return &tour, nil
}

// SlugTaken reports whether another tour (excluding the given id) already
// uses the slug.
func (mdb *MongodbRepo) SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return false, err
	}

	filter := bson.M{"slug": slug}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking slug: %v", err)
	}
	return count > 0, nil
}

func (mdb *MongodbRepo) UpdateTour(ctx context.Context, id primitive.ObjectID, set bson.M) (*Tour, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, err
	}

	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Tour
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteTour(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting tour: %v", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (mdb *MongodbRepo) ListTours(ctx context.Context, params map[string]string) ([]*Tour, *Meta, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, nil, err
	}

	qb := NewQueryBuilder(col, bson.M{}, params).
		Search(TourSearchableFields).
		Filter().
		Sort().
		Fields().
		Paginate()

	var tours []*Tour
	if err := qb.Build(ctx, &tours); err != nil {
		return nil, nil, err
	}
	meta, err := qb.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tours, meta, nil
}

// SearchTours supports the richer storefront filters: multi-term search,
// priceRange ("min-max" or a bare minimum), category/language partial
// matches, and status/isActive flags.
func (mdb *MongodbRepo) SearchTours(ctx context.Context, params map[string]string) ([]*Tour, *Meta, error) {
	col, err := mdb.GetCollection(ctx, DbName, TourColName)
	if err != nil {
		return nil, nil, err
	}

	filter := bson.M{}

	if raw := strings.TrimSpace(params["search"]); raw != "" {
		var ands []bson.M
		for _, term := range strings.Fields(raw) {
			escaped := regexp.QuoteMeta(term)
			ors := make([]bson.M, 0, len(TourSearchableFields))
			for _, field := range TourSearchableFields {
				ors = append(ors, bson.M{field: bson.M{"$regex": escaped, "$options": "i"}})
			}
			ands = append(ands, bson.M{"$or": ors})
		}
		if len(ands) > 0 {
			filter["$and"] = ands
		}
	}

	if rng := strings.TrimSpace(params["priceRange"]); rng != "" {
		price := bson.M{}
		parts := strings.SplitN(rng, "-", 2)
		if min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil {
			price["$gte"] = min
		}
		if len(parts) == 2 {
			if max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
				price["$lte"] = max
			}
		}
		if len(price) > 0 {
			filter["fee"] = price
		}
	}

	if category := strings.TrimSpace(params["category"]); category != "" {
		filter["category"] = bson.M{"$regex": regexp.QuoteMeta(category), "$options": "i"}
	}
	if language := strings.TrimSpace(params["language"]); language != "" {
		filter["language"] = bson.M{"$regex": regexp.QuoteMeta(language), "$options": "i"}
	}
	if status := strings.TrimSpace(params["status"]); status != "" {
		filter["status"] = status
	}
	if active := strings.TrimSpace(params["isActive"]); active != "" {
		filter["is_active"] = strings.EqualFold(active, "true")
	}

	page := 1
	if p, err := strconv.Atoi(params["page"]); err == nil && p > 0 {
		page = p
	}
	limit := 10
	if l, err := strconv.Atoi(params["limit"]); err == nil && l > 0 {
		limit = l
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	if s := strings.TrimSpace(params["sort"]); s != "" {
		order := 1
		field := s
		if strings.HasPrefix(s, "-") {
			order = -1
			field = s[1:]
		}
		sort = bson.D{{Key: field, Value: order}}
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error searching tours: %v", err)
	}
	defer cursor.Close(ctx)

	var tours []*Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, nil, fmt.Errorf("error decoding tours: %v", err)
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("error counting tours: %v", err)
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	return tours, &Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}
