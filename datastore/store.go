// Package datastore persists users, posts and comments.
//
// Operations spanning more than one document (comment linkage, saves, friendships and
// post deletion) are exposed as single calls, and every implementation applies them atomically.
package datastore

import (
	"context"
	"errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/model"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// UserStore persists user documents
type UserStore interface {
	// CreateUser inserts u, failing with ErrDuplicate when the email is taken
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	// PublicUsers resolves references to their public fields. Unknown ids are left out of the map.
	PublicUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.PublicUser, error)
	RecentUsers(ctx context.Context, limit int64) ([]model.PublicUser, error)
	// SearchUsers matches query as a case-insensitive substring of first name, last name or email
	SearchUsers(ctx context.Context, query string, limit int64) ([]model.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update model.UserUpdate) (*model.User, error)
	// AddFriendRequest records requesterID as a pending inbound request of targetID
	AddFriendRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error
	// AcceptFriendRequest drops the pending request and makes both users friends of each other
	AcceptFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error
}

// PostStore persists post documents
type PostStore interface {
	CreatePost(ctx context.Context, p *model.Post) error
	PostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	// ListPosts returns matching posts, newest first
	ListPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, update model.PostUpdate) (*model.Post, error)
	// DeletePost removes the post, its comments and every saved reference to it
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	// ToggleLike flips userID's membership in the post likes and returns the resulting set
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (model.IDSet, error)
	TogglePin(ctx context.Context, postID primitive.ObjectID) (pinned bool, err error)
	// ToggleSave flips membership in both Post.savedBy and User.savedPosts
	ToggleSave(ctx context.Context, postID, userID primitive.ObjectID) (saved bool, err error)
}

// CommentStore persists comment documents
type CommentStore interface {
	// CreateComment inserts c and appends it to its post, failing with ErrNotFound when the post is absent
	CreateComment(ctx context.Context, c *model.Comment) error
	CommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	// CommentsByPost returns the comments of a post, newest first
	CommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]model.Comment, error)
	CommentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Comment, error)
	// DeleteComment removes the comment and its reference from the parent post
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

// Store is the full persistence layer
type Store interface {
	UserStore
	PostStore
	CommentStore
	// Reset drops every document, used by the seeder
	Reset(ctx context.Context) error
	Close(ctx context.Context) error
}
