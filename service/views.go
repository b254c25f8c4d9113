package service

import (
	"context"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/datastore"
	"socialite/model"
)

// PostView is a post with its owner and comments populated
type PostView struct {
	model.Post
	User     model.PublicUser `json:"user"`
	Comments []CommentView    `json:"comments"`
}

// CommentView is a comment with its owner populated
type CommentView struct {
	model.Comment
	User model.PublicUser `json:"user"`
}

// Profile is a user without credential and with friends populated
type Profile struct {
	model.User
	Friends []model.PublicUser `json:"friends"`
}

func publicOrStub(users map[primitive.ObjectID]model.PublicUser, id primitive.ObjectID) model.PublicUser {
	if u, ok := users[id]; ok {
		return u
	}
	return model.PublicUser{ID: id}
}

// orderedPublicUsers resolves ids keeping their order and skipping unknown users
func orderedPublicUsers(ctx context.Context, store datastore.UserStore, ids []primitive.ObjectID) ([]model.PublicUser, error) {
	users, err := store.PublicUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// populateComments attaches owners to comments, keeping their order
func populateComments(ctx context.Context, store datastore.UserStore, comments []model.Comment) ([]CommentView, error) {
	owners := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		owners = append(owners, c.User)
	}
	users, err := store.PublicUsers(ctx, owners)
	if err != nil {
		return nil, errors.Wrap(err, "populating comment owners failed")
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, User: publicOrStub(users, c.User)})
	}
	return views, nil
}

// populatePosts attaches owners and comments (with their owners) to posts.
// Comments follow the order of Post.comments; all lookups are batched.
func populatePosts(ctx context.Context, store datastore.Store, posts []model.Post) ([]PostView, error) {
	var commentIDs []primitive.ObjectID
	for _, p := range posts {
		commentIDs = append(commentIDs, p.Comments...)
	}
	comments, err := store.CommentsByIDs(ctx, commentIDs)
	if err != nil {
		return nil, errors.Wrap(err, "populating comments failed")
	}
	commentsByID := make(map[primitive.ObjectID]model.Comment, len(comments))
	owners := make([]primitive.ObjectID, 0, len(posts)+len(comments))
	for _, c := range comments {
		commentsByID[c.ID] = c
		owners = append(owners, c.User)
	}
	for _, p := range posts {
		owners = append(owners, p.User)
	}
	users, err := store.PublicUsers(ctx, owners)
	if err != nil {
		return nil, errors.Wrap(err, "populating post owners failed")
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view := PostView{Post: p, User: publicOrStub(users, p.User), Comments: make([]CommentView, 0, len(p.Comments))}
		for _, cid := range p.Comments {
			if c, ok := commentsByID[cid]; ok {
				view.Comments = append(view.Comments, CommentView{Comment: c, User: publicOrStub(users, c.User)})
			}
		}
		views = append(views, view)
	}
	return views, nil
}
