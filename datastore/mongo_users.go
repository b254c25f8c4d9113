package datastore

import (
	"context"
	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"regexp"
	"socialite/log"
	"socialite/model"
	"strings"
	"time"
)

// projection hiding the credential of a user
var withoutPassword = bson.M{model.UserPasswordField: 0}

func (m *Mongo) CreateUser(ctx context.Context, u *model.User) error {
	_, err := m.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		log.Logger().Printf("user already exist with email %s", u.Email)
		return ErrDuplicate
	}
	if err != nil {
		return errors.Wrapf(err, "error while creating new user %s", u.Email)
	}
	log.Logger().Printf("user %s successfully created with email %s", u.ID.Hex(), u.Email)
	return nil
}

func (m *Mongo) UserByID(ctx context.Context, id primitive.ObjectID) (user *model.User, err error) {
	user = &model.User{}
	err = m.users.FindOne(ctx, bson.M{ObjectID: id}).Decode(user)
	if err != nil {
		user = nil
		if err == mongo.ErrNoDocuments {
			log.Logger().Debugf("no user found with ID: %s", id.Hex())
			err = ErrNotFound
			return
		}
		err = errors.Wrapf(err, "decoding(unmarshal) user fetch result for ID %s failed", id.Hex())
	}
	return
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (user *model.User, err error) {
	user = &model.User{}
	err = m.users.FindOne(ctx, bson.M{model.UserEmailField: strings.ToLower(email)}).Decode(user)
	if err != nil {
		user = nil
		if err == mongo.ErrNoDocuments {
			log.Logger().Debugf("no user found with email: %s", email)
			err = ErrNotFound
			return
		}
		err = errors.Wrapf(err, "decoding(unmarshal) user fetch result for email %s failed", email)
	}
	return
}

func (m *Mongo) PublicUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.PublicUser, error) {
	users := make(map[primitive.ObjectID]model.PublicUser, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := m.users.Find(ctx,
		bson.M{ObjectID: bson.M{MongoInOperator: ids}},
		options.Find().SetProjection(model.PublicUserFields))
	if err != nil {
		return nil, errors.Wrap(err, "fetching public users failed")
	}
	var found []model.PublicUser
	if err = cursor.All(ctx, &found); err != nil {
		return nil, errors.Wrap(err, "decoding public users failed")
	}
	for _, u := range found {
		users[u.ID] = u
	}
	return users, nil
}

func (m *Mongo) RecentUsers(ctx context.Context, limit int64) ([]model.PublicUser, error) {
	cursor, err := m.users.Find(ctx, bson.D{},
		options.Find().
			SetProjection(model.PublicUserFields).
			SetSort(newestFirst()).
			SetLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "fetching recent users failed")
	}
	users := make([]model.PublicUser, 0, limit)
	if err = cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decoding recent users failed")
	}
	return users, nil
}

func (m *Mongo) SearchUsers(ctx context.Context, query string, limit int64) ([]model.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{MongoOrOperator: bson.A{
		bson.M{model.UserFirstNameField: pattern},
		bson.M{model.UserLastNameField: pattern},
		bson.M{model.UserEmailField: pattern},
	}}
	cursor, err := m.users.Find(ctx, filter, options.Find().SetProjection(withoutPassword).SetLimit(limit))
	if err != nil {
		return nil, errors.Wrapf(err, "searching users for %q failed", query)
	}
	users := make([]model.User, 0, limit)
	if err = cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decoding user search result failed")
	}
	return users, nil
}

func (m *Mongo) UpdateUser(ctx context.Context, id primitive.ObjectID, update model.UserUpdate) (*model.User, error) {
	set := structs.Map(update)
	set[model.UserUpdatedAtField] = time.Now().UTC()
	user := &model.User{}
	err := m.users.FindOneAndUpdate(ctx,
		bson.M{ObjectID: id},
		bson.M{MongoSetOperator: set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(user)
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "profile update failed for user %s", id.Hex())
	}
	log.Logger().Printf("profile update successful for user %s: %v", id.Hex(), keys(set))
	return user, nil
}

func (m *Mongo) AddFriendRequest(ctx context.Context, targetID, requesterID primitive.ObjectID) error {
	res, err := m.users.UpdateOne(ctx,
		bson.M{ObjectID: targetID},
		bson.M{MongoAddToSetOperator: bson.M{model.UserFriendRequestsField: requesterID}})
	if err != nil {
		return errors.Wrapf(err, "sending friend request failed from %s to %s", requesterID.Hex(), targetID.Hex())
	}
	if res.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) AcceptFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := m.users.UpdateOne(sc,
			bson.M{ObjectID: userID},
			bson.M{
				MongoPullOperator:     bson.M{model.UserFriendRequestsField: requesterID},
				MongoAddToSetOperator: bson.M{model.UserFriendsField: requesterID},
			})
		if err != nil {
			return errors.Wrapf(err, "error while adding %s as friend for %s", requesterID.Hex(), userID.Hex())
		}
		if res.MatchedCount != 1 {
			return ErrNotFound
		}

		// a crossed request in the other direction is settled by the same acceptance
		res, err = m.users.UpdateOne(sc,
			bson.M{ObjectID: requesterID},
			bson.M{
				MongoPullOperator:     bson.M{model.UserFriendRequestsField: userID},
				MongoAddToSetOperator: bson.M{model.UserFriendsField: userID},
			})
		if err != nil {
			return errors.Wrapf(err, "error while adding %s as friend for %s", userID.Hex(), requesterID.Hex())
		}
		if res.MatchedCount != 1 {
			return ErrNotFound
		}
		return nil
	})
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
