package service

import (
	"context"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/datastore"
	"socialite/log"
	"socialite/model"
	"strings"
)

// CreatePostInput is the body of a new post
type CreatePostInput struct {
	Content string `json:"content" validate:"required"`
	Image   string `json:"image"`
}

// UpdatePostInput is a partial post edit. Absent fields are left unchanged.
type UpdatePostInput struct {
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

type LikeResult struct {
	Likes      model.IDSet `json:"likes"`
	LikesCount int         `json:"likesCount"`
}

type PinResult struct {
	Pinned  bool   `json:"pinned"`
	Message string `json:"message"`
}

type SaveResult struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

// PostService owns posts and the reactions to them
type PostService struct {
	store datastore.Store
}

func NewPostService(store datastore.Store) *PostService {
	return &PostService{store: store}
}

func (s *PostService) CreatePost(ctx context.Context, userID primitive.ObjectID, in CreatePostInput) (*PostView, error) {
	if err := check(in); err != nil || strings.TrimSpace(in.Content) == "" {
		return nil, Validation(MsgContentRequired)
	}
	post := model.NewPost(userID, in.Content, in.Image, now())
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, errors.Wrap(err, "creating post failed")
	}
	log.Logger().WithFields(logrus.Fields{"post": post.ID.Hex(), "user": userID.Hex()}).Debug("post created")
	return s.view(ctx, post)
}

// ListFeed returns the newest posts across every user
func (s *PostService) ListFeed(ctx context.Context) ([]PostView, error) {
	return s.list(ctx, model.PostFilter{Limit: model.FeedLimit})
}

// ListUserPosts returns every post of one user, newest first. A malformed id lists nothing.
func (s *PostService) ListUserPosts(ctx context.Context, ownerHex string) ([]PostView, error) {
	owner, err := primitive.ObjectIDFromHex(ownerHex)
	if err != nil {
		return []PostView{}, nil
	}
	return s.list(ctx, model.PostFilter{Owner: &owner})
}

// ListSavedPosts returns the posts userID has bookmarked, newest first
func (s *PostService) ListSavedPosts(ctx context.Context, userID primitive.ObjectID) ([]PostView, error) {
	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching user failed")
	}
	if user.SavedPosts.Len() == 0 {
		return []PostView{}, nil
	}
	return s.list(ctx, model.PostFilter{IDs: user.SavedPosts})
}

func (s *PostService) GetPost(ctx context.Context, postHex string) (*PostView, error) {
	post, err := s.post(ctx, postHex)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

func (s *PostService) UpdatePost(ctx context.Context, userID primitive.ObjectID, postHex string, in UpdatePostInput) (*PostView, error) {
	post, err := s.owned(ctx, userID, postHex)
	if err != nil {
		return nil, err
	}
	var update model.PostUpdate
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) != "" {
			update.Content = in.Content
		}
	}
	update.Image = in.Image
	updated, err := s.store.UpdatePost(ctx, post.ID, update)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating post %s failed", post.ID.Hex())
	}
	return s.view(ctx, updated)
}

// DeletePost removes an owned post together with its comments and bookmarks
func (s *PostService) DeletePost(ctx context.Context, userID primitive.ObjectID, postHex string) error {
	post, err := s.owned(ctx, userID, postHex)
	if err != nil {
		return err
	}
	err = s.store.DeletePost(ctx, post.ID)
	if errors.Is(err, datastore.ErrNotFound) {
		return NotFound(MsgPostNotFound)
	}
	if err != nil {
		return errors.Wrapf(err, "deleting post %s failed", post.ID.Hex())
	}
	log.Logger().WithFields(logrus.Fields{"post": post.ID.Hex(), "user": userID.Hex()}).Info("post deleted")
	return nil
}

func (s *PostService) ToggleLike(ctx context.Context, userID primitive.ObjectID, postHex string) (*LikeResult, error) {
	postID, err := parseID(postHex, MsgPostNotFound)
	if err != nil {
		return nil, err
	}
	likes, err := s.store.ToggleLike(ctx, postID, userID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "toggling like on post %s failed", postHex)
	}
	if likes == nil {
		likes = model.IDSet{}
	}
	return &LikeResult{Likes: likes, LikesCount: likes.Len()}, nil
}

// TogglePin flips the pinned flag of an owned post
func (s *PostService) TogglePin(ctx context.Context, userID primitive.ObjectID, postHex string) (*PinResult, error) {
	post, err := s.owned(ctx, userID, postHex)
	if err != nil {
		return nil, err
	}
	pinned, err := s.store.TogglePin(ctx, post.ID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "toggling pin on post %s failed", postHex)
	}
	res := &PinResult{Pinned: pinned, Message: "Post unpinned"}
	if pinned {
		res.Message = "Post pinned"
	}
	return res, nil
}

func (s *PostService) ToggleSave(ctx context.Context, userID primitive.ObjectID, postHex string) (*SaveResult, error) {
	postID, err := parseID(postHex, MsgPostNotFound)
	if err != nil {
		return nil, err
	}
	saved, err := s.store.ToggleSave(ctx, postID, userID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "toggling save on post %s failed", postHex)
	}
	res := &SaveResult{Saved: saved, Message: "Post unsaved"}
	if saved {
		res.Message = "Post saved"
	}
	return res, nil
}

func (s *PostService) post(ctx context.Context, postHex string) (*model.Post, error) {
	postID, err := parseID(postHex, MsgPostNotFound)
	if err != nil {
		return nil, err
	}
	post, err := s.store.PostByID(ctx, postID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching post %s failed", postHex)
	}
	return post, nil
}

// owned fetches a post and checks that userID may modify it
func (s *PostService) owned(ctx context.Context, userID primitive.ObjectID, postHex string) (*model.Post, error) {
	post, err := s.post(ctx, postHex)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(userID) {
		return nil, Forbidden(MsgNotAuthorized)
	}
	return post, nil
}

func (s *PostService) list(ctx context.Context, filter model.PostFilter) ([]PostView, error) {
	posts, err := s.store.ListPosts(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	return populatePosts(ctx, s.store, posts)
}

func (s *PostService) view(ctx context.Context, post *model.Post) (*PostView, error) {
	views, err := populatePosts(ctx, s.store, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
