package datastore

import (
	"context"
	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"socialite/log"
	"socialite/model"
	"time"
)

func (m *Mongo) CreatePost(ctx context.Context, p *model.Post) error {
	if _, err := m.posts.InsertOne(ctx, p); err != nil {
		return errors.Wrapf(err, "error while creating post for user %s", p.User.Hex())
	}
	log.Logger().Printf("post %s successfully created by user %s", p.ID.Hex(), p.User.Hex())
	return nil
}

func (m *Mongo) PostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	post := &model.Post{}
	if err := m.posts.FindOne(ctx, bson.M{ObjectID: id}).Decode(post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "decoding(unmarshal) post %s failed", id.Hex())
	}
	return post, nil
}

func (m *Mongo) ListPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	query := bson.M{}
	if filter.Owner != nil {
		query[model.PostUserField] = *filter.Owner
	}
	if filter.IDs != nil {
		query[ObjectID] = bson.M{MongoInOperator: filter.IDs}
	}
	opts := options.Find().SetSort(newestFirst())
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cursor, err := m.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	posts := make([]model.Post, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "decoding posts failed")
	}
	return posts, nil
}

func (m *Mongo) UpdatePost(ctx context.Context, id primitive.ObjectID, update model.PostUpdate) (*model.Post, error) {
	set := structs.Map(update)
	set[model.PostUpdatedAtField] = time.Now().UTC()
	post := &model.Post{}
	err := m.posts.FindOneAndUpdate(ctx,
		bson.M{ObjectID: id},
		bson.M{MongoSetOperator: set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(post)
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "updating post %s failed", id.Hex())
	}
	return post, nil
}

func (m *Mongo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := m.posts.DeleteOne(sc, bson.M{ObjectID: id})
		if err != nil {
			return errors.Wrapf(err, "deleting post %s failed", id.Hex())
		}
		if res.DeletedCount != 1 {
			return ErrNotFound
		}
		comments, err := m.comments.DeleteMany(sc, bson.M{model.CommentPostField: id})
		if err != nil {
			return errors.Wrapf(err, "deleting comments of post %s failed", id.Hex())
		}
		_, err = m.users.UpdateMany(sc,
			bson.M{model.UserSavedPostsField: id},
			bson.M{MongoPullOperator: bson.M{model.UserSavedPostsField: id}})
		if err != nil {
			return errors.Wrapf(err, "unsaving deleted post %s failed", id.Hex())
		}
		log.Logger().Printf("post %s deleted along with %d comments", id.Hex(), comments.DeletedCount)
		return nil
	})
}

// toggleMember is an aggregation expression removing id from the array field if present and appending it otherwise
func toggleMember(field string, id primitive.ObjectID) bson.D {
	array := bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}
	return bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: MongoInOperator, Value: bson.A{id, array}}},
		bson.D{{Key: "$setDifference", Value: bson.A{array, bson.A{id}}}},
		bson.D{{Key: "$concatArrays", Value: bson.A{array, bson.A{id}}}},
	}}}
}

// ToggleLike is a single pipeline update, so concurrent toggles never lose a membership change
func (m *Mongo) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (model.IDSet, error) {
	update := mongo.Pipeline{
		{{Key: MongoSetOperator, Value: bson.D{{Key: model.PostLikesField, Value: toggleMember(model.PostLikesField, userID)}}}},
	}
	post := &model.Post{}
	err := m.posts.FindOneAndUpdate(ctx,
		bson.M{ObjectID: postID},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{model.PostLikesField: 1})).
		Decode(post)
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "toggling like of %s on post %s failed", userID.Hex(), postID.Hex())
	}
	return post.Likes, nil
}

func (m *Mongo) TogglePin(ctx context.Context, postID primitive.ObjectID) (bool, error) {
	update := mongo.Pipeline{
		{{Key: MongoSetOperator, Value: bson.D{{Key: model.PostPinnedField, Value: bson.D{{Key: "$not", Value: bson.A{"$" + model.PostPinnedField}}}}}}},
	}
	post := &model.Post{}
	err := m.posts.FindOneAndUpdate(ctx,
		bson.M{ObjectID: postID},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{model.PostPinnedField: 1})).
		Decode(post)
	if err != nil {
		return false, errors.Wrapf(notFound(err), "toggling pin of post %s failed", postID.Hex())
	}
	return post.Pinned, nil
}

func (m *Mongo) ToggleSave(ctx context.Context, postID, userID primitive.ObjectID) (saved bool, err error) {
	err = m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		post := &model.Post{}
		err := m.posts.FindOne(sc, bson.M{ObjectID: postID},
			options.FindOne().SetProjection(bson.M{model.PostSavedByField: 1})).
			Decode(post)
		if err != nil {
			return errors.Wrapf(notFound(err), "fetching post %s failed", postID.Hex())
		}

		operator := MongoAddToSetOperator
		saved = !post.SavedBy.Contains(userID)
		if !saved {
			operator = MongoPullOperator
		}
		if _, err = m.posts.UpdateOne(sc,
			bson.M{ObjectID: postID},
			bson.M{operator: bson.M{model.PostSavedByField: userID}}); err != nil {
			return errors.Wrapf(err, "updating savers of post %s failed", postID.Hex())
		}
		res, err := m.users.UpdateOne(sc,
			bson.M{ObjectID: userID},
			bson.M{operator: bson.M{model.UserSavedPostsField: postID}})
		if err != nil {
			return errors.Wrapf(err, "updating saved posts of user %s failed", userID.Hex())
		}
		if res.MatchedCount != 1 {
			return ErrNotFound
		}
		return nil
	})
	return
}
