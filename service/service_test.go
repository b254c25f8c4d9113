package service

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/auth"
	"socialite/datastore"
	"socialite/model"
	"testing"
	"time"
)

type fixture struct {
	store    datastore.Store
	auth     *AuthService
	users    *UserService
	posts    *PostService
	comments *CommentService
}

func newFixture() *fixture {
	store := datastore.NewMemory()
	return &fixture{
		store:    store,
		auth:     NewAuthService(store, auth.NewTokens("test-secret", time.Hour)),
		users:    NewUserService(store),
		posts:    NewPostService(store),
		comments: NewCommentService(store),
	}
}

// register inserts a user straight into the store, skipping the bcrypt cost
func (f *fixture) register(t *testing.T, firstName, lastName string) *model.User {
	t.Helper()
	email := fmt.Sprintf("%s.%s@example.com", firstName, lastName)
	u := model.NewUser(firstName, lastName, email, "hash", now())
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) post(t *testing.T, owner primitive.ObjectID, content string) *PostView {
	t.Helper()
	p, err := f.posts.CreatePost(context.Background(), owner, CreatePostInput{Content: content})
	require.NoError(t, err)
	return p
}

func assertKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected kind for %q", err)
	if msg != "" {
		assert.Equal(t, msg, MessageOf(err))
	}
}

func ptr(s string) *string {
	return &s
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("x")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("x")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("x")))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
	assert.Equal(t, "Server error", MessageOf(fmt.Errorf("boom")), "internal causes must not leak")
}

func TestAuthService_RegisterLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	session, err := f.auth.Register(ctx, RegisterInput{FirstName: "Jane", LastName: "Doe", Email: " Jane@Doe.com ", Password: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "jane@doe.com", session.User.Email)
	assert.Empty(t, session.User.Password)

	id, err := f.auth.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id)

	_, err = f.auth.Register(ctx, RegisterInput{FirstName: "Jane", LastName: "Doe", Email: "jane@doe.com", Password: "123456"})
	assertKind(t, err, KindValidation, MsgUserExists)

	_, err = f.auth.Register(ctx, RegisterInput{FirstName: "Jo", LastName: "Doe", Email: "jo@doe.com", Password: "123"})
	assertKind(t, err, KindValidation, "Password must be at least 6 characters")

	_, err = f.auth.Register(ctx, RegisterInput{LastName: "Doe", Email: "x@doe.com", Password: "123456"})
	assertKind(t, err, KindValidation, "FirstName is required")

	_, err = f.auth.Register(ctx, RegisterInput{FirstName: "X", LastName: "Doe", Email: "not-an-email", Password: "123456"})
	assertKind(t, err, KindValidation, "Please enter a valid email")

	logged, err := f.auth.Login(ctx, LoginInput{Email: "jane@doe.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, logged.User.ID)

	_, err = f.auth.Login(ctx, LoginInput{Email: "jane@doe.com", Password: "wrong1"})
	assertKind(t, err, KindValidation, MsgInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Email: "nobody@doe.com", Password: "123456"})
	assertKind(t, err, KindValidation, MsgInvalidCredentials)

	_, err = f.auth.Authenticate("garbage")
	assertKind(t, err, KindUnauthorized, MsgNotAuthorized)

	me, err := f.auth.Me(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", me.FirstName)

	_, err = f.auth.Me(ctx, primitive.NewObjectID())
	assertKind(t, err, KindNotFound, MsgUserNotFound)
}
