package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the uniqueness and lookup indexes the services rely
// on. The unique review booking index closes the race window left by the
// transactional read-check on double-submitted reviews.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	type colIndexes struct {
		col     string
		indexes []mongo.IndexModel
	}

	all := []colIndexes{
		{
			col: UserColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("email_unique"),
				},
			},
		},
		{
			col: TourColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("slug_unique"),
				},
				{
					Keys:    bson.D{{Key: "author", Value: 1}},
					Options: options.Index().SetName("author_idx"),
				},
			},
		},
		{
			col: BookingColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("user_created_idx"),
				},
				{
					Keys:    bson.D{{Key: "guide", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("guide_created_idx"),
				},
			},
		},
		{
			col: PaymentColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "transaction_id", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("transaction_id_unique"),
				},
				{
					Keys:    bson.D{{Key: "booking", Value: 1}},
					Options: options.Index().SetName("booking_idx"),
				},
			},
		},
		{
			col: ReviewColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "booking", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("booking_unique"),
				},
				{
					Keys:    bson.D{{Key: "guide", Value: 1}},
					Options: options.Index().SetName("guide_idx"),
				},
				{
					Keys:    bson.D{{Key: "tour", Value: 1}},
					Options: options.Index().SetName("tour_idx"),
				},
			},
		},
		{
			col: BlogColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("slug_unique"),
				},
			},
		},
		{
			col: MessageRequestColName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "guide", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("guide_created_idx"),
				},
			},
		},
	}

	for _, ci := range all {
		col, err := mdb.GetCollection(ctx, DbName, ci.col)
		if err != nil {
			return err
		}
		if _, err := col.Indexes().CreateMany(ctx, ci.indexes); err != nil {
			return fmt.Errorf("error creating %s indexes: %v", ci.col, err)
		}
	}
	return nil
}
