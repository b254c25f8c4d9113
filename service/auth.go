package service

import (
	"context"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/auth"
	"socialite/datastore"
	"socialite/log"
	"socialite/model"
	"strings"
)

// RegisterInput is the body of a sign up request
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginInput is the body of a sign in request
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is handed to a client once it has authenticated
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService registers users and authenticates them
type AuthService struct {
	users  datastore.UserStore
	tokens *auth.Tokens
}

func NewAuthService(users datastore.UserStore, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user account and signs it in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (session *Session, err error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err = check(in); err != nil {
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return
	}
	user := model.NewUser(in.FirstName, in.LastName, in.Email, hash, now())
	err = s.users.CreateUser(ctx, user)
	if errors.Is(err, datastore.ErrDuplicate) {
		return nil, Validation(MsgUserExists)
	}
	if err != nil {
		return nil, errors.Wrap(err, "creating user failed")
	}
	log.Logger().WithField("user", user.ID.Hex()).Info("user registered")
	return s.session(user)
}

// Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, in LoginInput) (session *Session, err error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err = check(in); err != nil {
		return
	}
	user, err := s.users.UserByEmail(ctx, in.Email)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, Validation(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching user failed")
	}
	if auth.MatchPassword(user.Password, in.Password) != nil {
		return nil, Validation(MsgInvalidCredentials)
	}
	return s.session(user)
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	user, err := s.users.UserByID(ctx, userID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching user failed")
	}
	user.Password = ""
	return user, nil
}

// Authenticate resolves a bearer token to the user it was issued for
func (s *AuthService) Authenticate(token string) (primitive.ObjectID, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return primitive.NilObjectID, Unauthorized(MsgNotAuthorized)
	}
	return id, nil
}

func (s *AuthService) session(user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issuing token failed")
	}
	user.Password = ""
	return &Session{Token: token, User: user}, nil
}
