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

const (
	RecentUsersLimit   = 10
	SearchResultsLimit = 10
)

// ProfileInput is a partial profile edit. Absent fields are left unchanged.
type ProfileInput struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Bio        *string `json:"bio"`
	Avatar     *string `json:"avatar"`
	CoverPhoto *string `json:"coverPhoto"`
}

// UserService owns profiles and friendships
type UserService struct {
	users datastore.UserStore
}

func NewUserService(users datastore.UserStore) *UserService {
	return &UserService{users: users}
}

// ListRecent returns the most recently registered users
func (s *UserService) ListRecent(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.RecentUsers(ctx, RecentUsersLimit)
	if err != nil {
		return nil, errors.Wrap(err, "listing recent users failed")
	}
	return users, nil
}

func (s *UserService) GetProfile(ctx context.Context, userHex string) (*Profile, error) {
	userID, err := parseID(userHex, MsgUserNotFound)
	if err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

// UpdateOwnProfile applies a partial edit. Blank names and pictures are ignored, the bio may be cleared.
func (s *UserService) UpdateOwnProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*Profile, error) {
	update := model.UserUpdate{
		FirstName:  nonBlank(in.FirstName),
		LastName:   nonBlank(in.LastName),
		Bio:        in.Bio,
		Avatar:     nonBlank(in.Avatar),
		CoverPhoto: nonBlank(in.CoverPhoto),
	}
	user, err := s.users.UpdateUser(ctx, userID, update)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating user %s failed", userID.Hex())
	}
	return s.profile(ctx, user)
}

// SendFriendRequest records userID as a pending requester of the target user
func (s *UserService) SendFriendRequest(ctx context.Context, userID primitive.ObjectID, targetHex string) error {
	targetID, err := parseID(targetHex, MsgUserNotFound)
	if err != nil {
		return err
	}
	target, err := s.user(ctx, targetID)
	if err != nil {
		return err
	}
	switch {
	case targetID == userID:
		return Validation(MsgSelfFriendRequest)
	case target.Friends.Contains(userID):
		return Validation(MsgAlreadyFriends)
	case target.FriendRequests.Contains(userID):
		return Validation(MsgRequestAlreadySent)
	}
	if err = s.users.AddFriendRequest(ctx, targetID, userID); err != nil {
		return errors.Wrapf(err, "sending friend request to %s failed", targetHex)
	}
	log.Logger().WithFields(logrus.Fields{"from": userID.Hex(), "to": targetHex}).Info("friend request sent")
	return nil
}

// AcceptFriendRequest turns a pending request from requester into a friendship.
// Accepting someone who already is a friend succeeds without changes.
func (s *UserService) AcceptFriendRequest(ctx context.Context, userID primitive.ObjectID, requesterHex string) error {
	requesterID, err := parseID(requesterHex, MsgUserNotFound)
	if err != nil {
		return err
	}
	if _, err = s.user(ctx, requesterID); err != nil {
		return err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if user.Friends.Contains(requesterID) {
		return nil
	}
	if !user.FriendRequests.Contains(requesterID) {
		return NotFound(MsgFriendRequestNotFound)
	}
	if err = s.users.AcceptFriendRequest(ctx, userID, requesterID); err != nil {
		return errors.Wrapf(err, "accepting friend request from %s failed", requesterHex)
	}
	log.Logger().WithFields(logrus.Fields{"user": userID.Hex(), "friend": requesterHex}).Info("friend request accepted")
	return nil
}

// ListFriendRequests returns the users waiting for userID to accept them
func (s *UserService) ListFriendRequests(ctx context.Context, userID primitive.ObjectID) ([]model.PublicUser, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := orderedPublicUsers(ctx, s.users, user.FriendRequests)
	return requests, errors.Wrap(err, "populating friend requests failed")
}

// SearchUsers matches query against names and email, ignoring case
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, Validation(MsgSearchQueryRequired)
	}
	users, err := s.users.SearchUsers(ctx, query, SearchResultsLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "searching users for %q failed", query)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *UserService) user(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.users.UserByID(ctx, id)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching user %s failed", id.Hex())
	}
	return user, nil
}

func (s *UserService) profile(ctx context.Context, user *model.User) (*Profile, error) {
	friends, err := orderedPublicUsers(ctx, s.users, user.Friends)
	if err != nil {
		return nil, errors.Wrap(err, "populating friends failed")
	}
	user.Password = ""
	return &Profile{User: *user, Friends: friends}, nil
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
