package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// comment document collection name and fields
const (
	CommentCollection     = "comments"
	CommentUserField      = "user"
	CommentPostField      = "post"
	CommentCreatedAtField = "createdAt"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"` // owner, immutable
	Post      primitive.ObjectID `bson:"post" json:"post"` // parent post, immutable
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewComment(owner, post primitive.ObjectID, content string, now time.Time) *Comment {
	return &Comment{
		ID:        primitive.NewObjectID(),
		User:      owner,
		Post:      post,
		Content:   content,
		CreatedAt: now,
	}
}

func (c *Comment) OwnedBy(userID primitive.ObjectID) bool {
	return c.User == userID
}
