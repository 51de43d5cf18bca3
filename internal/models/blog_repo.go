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

type BlogRepo interface {
	InsertBlog(ctx context.Context, blog *Blog) (*Blog, error)
	GetBlogByID(ctx context.Context, id primitive.ObjectID) (*Blog, error)
	ReadBlogBySlug(ctx context.Context, slug string) (*Blog, error)
	BlogSlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	UpdateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*Blog, error)
	DeleteBlog(ctx context.Context, id primitive.ObjectID) error
	ListBlogs(ctx context.Context, params map[string]string) ([]*Blog, *Meta, error)
}

func (mdb *MongodbRepo) InsertBlog(ctx context.Context, blog *Blog) (*Blog, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return nil, err
	}

	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, blog); err != nil {
		// raw error so the service can detect a slug index collision
		return nil, err
	}
	return blog, nil
}

func (mdb *MongodbRepo) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return nil, err
	}

	var blog Blog
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// ReadBlogBySlug fetches a post and bumps its view counter in one round
// trip.
func (mdb *MongodbRepo) ReadBlogBySlug(ctx context.Context, slug string) (*Blog, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog Blog
	err = col.FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// BlogSlugTaken reports whether another post (excluding the given id)
// already uses the slug.
func (mdb *MongodbRepo) BlogSlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return false, err
	}

	filter := bson.M{"slug": slug}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking blog slug: %v", err)
	}
	return count > 0, nil
}

func (mdb *MongodbRepo) UpdateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*Blog, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return nil, err
	}

	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Blog
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting blog: %v", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (mdb *MongodbRepo) ListBlogs(ctx context.Context, params map[string]string) ([]*Blog, *Meta, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlogColName)
	if err != nil {
		return nil, nil, err
	}

	qb := NewQueryBuilder(col, bson.M{}, params).
		Search(BlogSearchableFields).
		Filter().
		Sort().
		Fields().
		Paginate()

	var blogs []*Blog
	if err := qb.Build(ctx, &blogs); err != nil {
		return nil, nil, err
	}
	meta, err := qb.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}
	return blogs, meta, nil
}
