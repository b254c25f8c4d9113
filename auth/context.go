package auth

import (
	"context"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user
func WithUserID(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// UserID returns the authenticated user of the request, if any
func UserID(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(contextKey{}).(primitive.ObjectID)
	return id, ok
}
