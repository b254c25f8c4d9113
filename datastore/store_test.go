package datastore

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"os"
	"socialite/model"
	"sync"
	"testing"
	"time"
)

// stores returns every Store the contract tests run against. The mongo store joins only
// when SOCIALITE_TEST_MONGO_URI points at a replica set.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{"memory": NewMemory()}
	if uri := os.Getenv("SOCIALITE_TEST_MONGO_URI"); uri != "" {
		ctx := context.Background()
		m, err := ConnectMongo(ctx, uri, fmt.Sprintf("socialite_test_%d", time.Now().UnixNano()))
		require.NoError(t, err, "mongo connection failed")
		t.Cleanup(func() {
			_ = m.db.Drop(ctx)
			_ = m.Close(ctx)
		})
		out["mongo"] = m
	}
	return out
}

func newTestUser(t *testing.T, s Store, first, email string) *model.User {
	t.Helper()
	u := model.NewUser(first, "Doe", email, "hash", time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newTestPost(t *testing.T, s Store, owner primitive.ObjectID, content string, at time.Time) *model.Post {
	t.Helper()
	p := model.NewPost(owner, content, "", at.UTC().Truncate(time.Millisecond))
	require.NoError(t, s.CreatePost(context.Background(), p))
	return p
}

func TestStore_Users(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			john := newTestUser(t, s, "John", "john@doe.com")

			dup := model.NewUser("Johnny", "Doe", "john@doe.com", "hash", time.Now().UTC())
			assert.Equal(t, ErrDuplicate, s.CreateUser(ctx, dup), "email must be unique")

			fetched, err := s.UserByEmail(ctx, "john@doe.com")
			require.NoError(t, err)
			assert.Equal(t, john.ID, fetched.ID)

			_, err = s.UserByID(ctx, primitive.NewObjectID())
			assert.Equal(t, ErrNotFound, err)

			bio := ""
			firstName := "Jonathan"
			updated, err := s.UpdateUser(ctx, john.ID, model.UserUpdate{FirstName: &firstName, Bio: &bio})
			require.NoError(t, err)
			assert.Equal(t, "Jonathan", updated.FirstName)
			assert.Equal(t, "Doe", updated.LastName, "unset fields stay unchanged")

			found, err := s.SearchUsers(ctx, "JONA", 10)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Empty(t, found[0].Password, "search must not expose the credential")

			found, err = s.SearchUsers(ctx, ".*", 10)
			require.NoError(t, err)
			assert.Empty(t, found, "query is matched literally")
		})
	}
}

func TestStore_FriendRequests(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newTestUser(t, s, "Alice", "alice@x.com")
			b := newTestUser(t, s, "Bob", "bob@x.com")

			require.NoError(t, s.AddFriendRequest(ctx, b.ID, a.ID))
			require.NoError(t, s.AddFriendRequest(ctx, b.ID, a.ID))
			bob, err := s.UserByID(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, model.IDSet{a.ID}, bob.FriendRequests, "requests are a set")

			assert.Equal(t, ErrNotFound, s.AddFriendRequest(ctx, primitive.NewObjectID(), a.ID))

			require.NoError(t, s.AcceptFriendRequest(ctx, b.ID, a.ID))
			require.NoError(t, s.AcceptFriendRequest(ctx, b.ID, a.ID))

			bob, err = s.UserByID(ctx, b.ID)
			require.NoError(t, err)
			alice, err := s.UserByID(ctx, a.ID)
			require.NoError(t, err)
			assert.Empty(t, bob.FriendRequests)
			assert.Equal(t, model.IDSet{a.ID}, bob.Friends)
			assert.Equal(t, model.IDSet{b.ID}, alice.Friends, "friendship must be symmetric")
		})
	}
}

func TestStore_PostsAndComments(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newTestUser(t, s, "Alice", "alice@x.com")
			b := newTestUser(t, s, "Bob", "bob@x.com")
			base := time.Now()
			first := newTestPost(t, s, a.ID, "first", base)
			second := newTestPost(t, s, b.ID, "second", base.Add(time.Second))

			posts, err := s.ListPosts(ctx, model.PostFilter{})
			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, second.ID, posts[0].ID, "newest first")

			posts, err = s.ListPosts(ctx, model.PostFilter{Owner: &a.ID})
			require.NoError(t, err)
			require.Len(t, posts, 1)
			assert.Equal(t, first.ID, posts[0].ID)

			c := model.NewComment(b.ID, first.ID, "hi", time.Now().UTC().Truncate(time.Millisecond))
			require.NoError(t, s.CreateComment(ctx, c))
			orphan := model.NewComment(b.ID, primitive.NewObjectID(), "lost", time.Now().UTC())
			assert.Equal(t, ErrNotFound, errors.Cause(s.CreateComment(ctx, orphan)))

			post, err := s.PostByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, []primitive.ObjectID{c.ID}, post.Comments)

			require.NoError(t, s.DeleteComment(ctx, c.ID))
			post, err = s.PostByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Empty(t, post.Comments)
			_, err = s.CommentByID(ctx, c.ID)
			assert.Equal(t, ErrNotFound, err)
		})
	}
}

func TestStore_Toggles(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newTestUser(t, s, "Alice", "alice@x.com")
			post := newTestPost(t, s, a.ID, "hello", time.Now())

			likes, err := s.ToggleLike(ctx, post.ID, a.ID)
			require.NoError(t, err)
			assert.Equal(t, model.IDSet{a.ID}, likes)
			likes, err = s.ToggleLike(ctx, post.ID, a.ID)
			require.NoError(t, err)
			assert.Empty(t, likes)

			pinned, err := s.TogglePin(ctx, post.ID)
			require.NoError(t, err)
			assert.True(t, pinned)

			saved, err := s.ToggleSave(ctx, post.ID, a.ID)
			require.NoError(t, err)
			assert.True(t, saved)
			user, err := s.UserByID(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, model.IDSet{post.ID}, user.SavedPosts)

			_, err = s.ToggleLike(ctx, primitive.NewObjectID(), a.ID)
			assert.Equal(t, ErrNotFound, errors.Cause(err))
		})
	}
}

func TestStore_ConcurrentToggles(t *testing.T) {
	const togglesPerUser = 20 // even, so every user ends where it started
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newTestUser(t, s, "Alice", "alice@x.com")
			b := newTestUser(t, s, "Bob", "bob@x.com")
			post := newTestPost(t, s, a.ID, "hello", time.Now())
			_, err := s.ToggleLike(ctx, post.ID, b.ID)
			require.NoError(t, err)

			var wg sync.WaitGroup
			errs := make(chan error, 3*togglesPerUser)
			for i := 0; i < togglesPerUser; i++ {
				for _, user := range []primitive.ObjectID{a.ID, b.ID} {
					wg.Add(1)
					go func(user primitive.ObjectID) {
						defer wg.Done()
						if _, err := s.ToggleLike(ctx, post.ID, user); err != nil {
							errs <- err
						}
					}(user)
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := s.TogglePin(ctx, post.ID); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			got, err := s.PostByID(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, model.IDSet{b.ID}, got.Likes, "no toggle may be lost")
			assert.False(t, got.Pinned)
		})
	}
}

func TestStore_DeletePostCascades(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newTestUser(t, s, "Alice", "alice@x.com")
			post := newTestPost(t, s, a.ID, "hello", time.Now())
			c := model.NewComment(a.ID, post.ID, "mine", time.Now().UTC())
			require.NoError(t, s.CreateComment(ctx, c))
			_, err := s.ToggleSave(ctx, post.ID, a.ID)
			require.NoError(t, err)

			require.NoError(t, s.DeletePost(ctx, post.ID))
			assert.Equal(t, ErrNotFound, errors.Cause(s.DeletePost(ctx, post.ID)))

			_, err = s.CommentByID(ctx, c.ID)
			assert.Equal(t, ErrNotFound, err, "comments go with their post")
			user, err := s.UserByID(ctx, a.ID)
			require.NoError(t, err)
			assert.Empty(t, user.SavedPosts, "saved references go with their post")
		})
	}
}
