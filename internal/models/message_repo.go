package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	InsertMessageRequest(ctx context.Context, req *MessageRequest) (*MessageRequest, error)
	ListGuideMessageRequests(ctx context.Context, guideID primitive.ObjectID) ([]*MessageRequest, error)
}

func (mdb *MongodbRepo) InsertMessageRequest(ctx context.Context, req *MessageRequest) (*MessageRequest, error) {
	col, err := mdb.GetCollection(ctx, DbName, MessageRequestColName)
	if err != nil {
		return nil, err
	}

	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("error inserting message request: %v", err)
	}
	return req, nil
}

// ListGuideMessageRequests returns the requests addressed to a guide,
// newest first.
func (mdb *MongodbRepo) ListGuideMessageRequests(ctx context.Context, guideID primitive.ObjectID) ([]*MessageRequest, error) {
	col, err := mdb.GetCollection(ctx, DbName, MessageRequestColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"guide": guideID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding message requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []*MessageRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding message requests: %v", err)
	}
	return requests, nil
}
