package service

import (
	"context"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/datastore"
	"socialite/model"
	"strings"
)

// CreateCommentInput is the body of a new comment
type CreateCommentInput struct {
	PostID  string `json:"postId"`
	Content string `json:"content" validate:"required"`
}

// CommentService owns comments on posts
type CommentService struct {
	store datastore.Store
}

func NewCommentService(store datastore.Store) *CommentService {
	return &CommentService{store: store}
}

// CreateComment appends a comment to a post and returns it with its owner populated
func (s *CommentService) CreateComment(ctx context.Context, userID primitive.ObjectID, in CreateCommentInput) (*CommentView, error) {
	if err := check(in); err != nil || strings.TrimSpace(in.Content) == "" {
		return nil, Validation(MsgContentRequired)
	}
	postID, err := parseID(in.PostID, MsgPostNotFound)
	if err != nil {
		return nil, err
	}
	comment := model.NewComment(userID, postID, in.Content, now())
	err = s.store.CreateComment(ctx, comment)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "commenting on post %s failed", in.PostID)
	}
	views, err := populateComments(ctx, s.store, []model.Comment{*comment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListComments returns the comments of a post, newest first. A malformed id lists nothing.
func (s *CommentService) ListComments(ctx context.Context, postHex string) ([]CommentView, error) {
	postID, err := primitive.ObjectIDFromHex(postHex)
	if err != nil {
		return []CommentView{}, nil
	}
	comments, err := s.store.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing comments of post %s failed", postHex)
	}
	return populateComments(ctx, s.store, comments)
}

// DeleteComment removes an owned comment and unlinks it from its post
func (s *CommentService) DeleteComment(ctx context.Context, userID primitive.ObjectID, commentHex string) error {
	commentID, err := parseID(commentHex, MsgCommentNotFound)
	if err != nil {
		return err
	}
	comment, err := s.store.CommentByID(ctx, commentID)
	if errors.Is(err, datastore.ErrNotFound) {
		return NotFound(MsgCommentNotFound)
	}
	if err != nil {
		return errors.Wrapf(err, "fetching comment %s failed", commentHex)
	}
	if !comment.OwnedBy(userID) {
		return Forbidden(MsgNotAuthorized)
	}
	err = s.store.DeleteComment(ctx, commentID)
	if errors.Is(err, datastore.ErrNotFound) {
		return NotFound(MsgCommentNotFound)
	}
	return errors.Wrapf(err, "deleting comment %s failed", commentHex)
}
