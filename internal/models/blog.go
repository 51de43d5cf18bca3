package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BlogColName = "blogs"

var BlogSearchableFields = []string{"title", "description", "tags"}

type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content" json:"content"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Thumbnail   string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Author      primitive.ObjectID `bson:"author" json:"author"`
	ReadTime    int                `bson:"read_time" json:"readTime"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"is_published" json:"isPublished"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BlogPatch is an explicit partial update, nil fields stay untouched.
type BlogPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	ReadTime    *int      `json:"readTime,omitempty"`
	IsPublished *bool     `json:"isPublished,omitempty"`
}

func (p BlogPatch) SetDoc() bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.ReadTime != nil {
		set["read_time"] = *p.ReadTime
	}
	if p.IsPublished != nil {
		set["is_published"] = *p.IsPublished
	}
	return set
}
