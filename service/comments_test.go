package service

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"testing"
)

func TestCommentService_Scenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.register(t, "Alice", "A")
	b := f.register(t, "Bob", "B")
	p := f.post(t, a.ID, "hello")

	c, err := f.comments.CreateComment(ctx, b.ID, CreateCommentInput{PostID: p.ID.Hex(), Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, c.User.ID)
	assert.Equal(t, "Bob", c.User.FirstName)

	comments, err := f.comments.ListComments(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hi", comments[0].Content)
	assert.Equal(t, b.ID, comments[0].User.ID)

	post, err := f.posts.GetPost(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, c.ID, post.Comments[0].ID)
	assert.Equal(t, "Bob", post.Comments[0].User.FirstName)
}

func TestCommentService_CreateComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.register(t, "Alice", "A")
	p := f.post(t, a.ID, "hello")

	_, err := f.comments.CreateComment(ctx, a.ID, CreateCommentInput{PostID: p.ID.Hex(), Content: " "})
	assertKind(t, err, KindValidation, MsgContentRequired)

	_, err = f.comments.CreateComment(ctx, a.ID, CreateCommentInput{PostID: primitive.NewObjectID().Hex(), Content: "hi"})
	assertKind(t, err, KindNotFound, MsgPostNotFound)

	_, err = f.comments.CreateComment(ctx, a.ID, CreateCommentInput{Content: "hi"})
	assertKind(t, err, KindNotFound, MsgPostNotFound)

	c, err := f.comments.CreateComment(ctx, a.ID, CreateCommentInput{PostID: p.ID.Hex(), Content: " hi "})
	require.NoError(t, err)
	assert.Equal(t, " hi ", c.Content)
	listed, err := f.comments.ListComments(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, " hi ", listed[0].Content, "stored content must match the input exactly")
}

func TestCommentService_Ordering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.register(t, "Alice", "A")
	p := f.post(t, a.ID, "hello")
	for _, content := range []string{"one", "two", "three"} {
		_, err := f.comments.CreateComment(ctx, a.ID, CreateCommentInput{PostID: p.ID.Hex(), Content: content})
		require.NoError(t, err)
	}

	listed, err := f.comments.ListComments(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "three", listed[0].Content, "listing is newest first")

	post, err := f.posts.GetPost(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, post.Comments, 3)
	assert.Equal(t, "one", post.Comments[0].Content, "populated post keeps insertion order")

	empty, err := f.comments.ListComments(ctx, "garbage")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentService_DeleteComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.register(t, "Alice", "A")
	b := f.register(t, "Bob", "B")
	p := f.post(t, a.ID, "hello")
	c, err := f.comments.CreateComment(ctx, b.ID, CreateCommentInput{PostID: p.ID.Hex(), Content: "hi"})
	require.NoError(t, err)

	assertKind(t, f.comments.DeleteComment(ctx, a.ID, c.ID.Hex()), KindForbidden, MsgNotAuthorized)
	assertKind(t, f.comments.DeleteComment(ctx, b.ID, "zzz"), KindNotFound, MsgCommentNotFound)

	require.NoError(t, f.comments.DeleteComment(ctx, b.ID, c.ID.Hex()))
	post, err := f.posts.GetPost(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, post.Comments)

	assertKind(t, f.comments.DeleteComment(ctx, b.ID, c.ID.Hex()), KindNotFound, MsgCommentNotFound)
}
