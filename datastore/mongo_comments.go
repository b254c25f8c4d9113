package datastore

import (
	"context"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"socialite/log"
	"socialite/model"
)

func (m *Mongo) CreateComment(ctx context.Context, c *model.Comment) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := m.posts.UpdateOne(sc,
			bson.M{ObjectID: c.Post},
			bson.M{MongoPushOperator: bson.M{model.PostCommentsField: c.ID}})
		if err != nil {
			return errors.Wrapf(err, "linking comment to post %s failed", c.Post.Hex())
		}
		if res.MatchedCount != 1 {
			return ErrNotFound
		}
		if _, err = m.comments.InsertOne(sc, c); err != nil {
			return errors.Wrapf(err, "error while creating comment on post %s", c.Post.Hex())
		}
		log.Logger().Printf("comment %s created by %s on post %s", c.ID.Hex(), c.User.Hex(), c.Post.Hex())
		return nil
	})
}

func (m *Mongo) CommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	comment := &model.Comment{}
	if err := m.comments.FindOne(ctx, bson.M{ObjectID: id}).Decode(comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "decoding(unmarshal) comment %s failed", id.Hex())
	}
	return comment, nil
}

func (m *Mongo) CommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]model.Comment, error) {
	return m.findComments(ctx, bson.M{model.CommentPostField: postID})
}

func (m *Mongo) CommentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Comment, error) {
	if len(ids) == 0 {
		return []model.Comment{}, nil
	}
	return m.findComments(ctx, bson.M{ObjectID: bson.M{MongoInOperator: ids}})
}

func (m *Mongo) findComments(ctx context.Context, filter bson.M) ([]model.Comment, error) {
	cursor, err := m.comments.Find(ctx, filter, options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, errors.Wrap(err, "listing comments failed")
	}
	comments := make([]model.Comment, 0)
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, errors.Wrap(err, "decoding comments failed")
	}
	return comments, nil
}

func (m *Mongo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		comment := &model.Comment{}
		if err := m.comments.FindOneAndDelete(sc, bson.M{ObjectID: id}).Decode(comment); err != nil {
			return errors.Wrapf(notFound(err), "deleting comment %s failed", id.Hex())
		}
		// the parent may already be gone, which leaves nothing to unlink
		if _, err := m.posts.UpdateOne(sc,
			bson.M{ObjectID: comment.Post},
			bson.M{MongoPullOperator: bson.M{model.PostCommentsField: id}}); err != nil {
			return errors.Wrapf(err, "unlinking comment %s from post %s failed", id.Hex(), comment.Post.Hex())
		}
		return nil
	})
}
