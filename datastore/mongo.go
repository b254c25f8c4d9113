package datastore

import (
	"context"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"socialite/log"
	"socialite/model"
	"time"
)

// mongodb query operators
const (
	MongoSetOperator      = "$set"
	MongoPushOperator     = "$push"
	MongoPullOperator     = "$pull"
	MongoAddToSetOperator = "$addToSet"
	MongoInOperator       = "$in"
	MongoOrOperator       = "$or"
)

// common fields/attributes of documents in various collections
const (
	ObjectID = "_id" // document level Primary Key
)

const connectTimeout = 10 * time.Second

// Mongo is the MongoDB backed Store. Multi-document operations run in transactions,
// so the deployment must be a replica set.
type Mongo struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

var _ Store = (*Mongo)(nil)

// ConnectMongo dials uri, verifies the connection and makes sure the indexes exist
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "create mongo connection pool failed")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping failed")
	}
	log.Logger().Printf("mongo successfully connected, database %s", database)

	m := NewMongo(client, database)
	if err = m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// NewMongo wraps an already connected client
func NewMongo(client *mongo.Client, database string) *Mongo {
	db := client.Database(database)
	return &Mongo{
		client:   client,
		db:       db,
		users:    db.Collection(model.UserCollection),
		posts:    db.Collection(model.PostCollection),
		comments: db.Collection(model.CommentCollection),
	}
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Reset drops all collections and recreates the indexes
func (m *Mongo) Reset(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{m.users, m.posts, m.comments} {
		if err := coll.Drop(ctx); err != nil {
			return errors.Wrapf(err, "dropping %s failed", coll.Name())
		}
	}
	return m.ensureIndexes(ctx)
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		m.users: {
			{Keys: bson.D{{Key: model.UserEmailField, Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: newestFirst()},
		},
		m.posts: {
			{Keys: newestFirst()},
			{Keys: bson.D{{Key: model.PostUserField, Value: 1}, {Key: model.PostCreatedAtField, Value: -1}}},
		},
		m.comments: {
			{Keys: bson.D{{Key: model.CommentPostField, Value: 1}, {Key: model.CommentCreatedAtField, Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes failed", coll.Name())
		}
	}
	return nil
}

// withTransaction runs fn inside a transaction. The driver retries fn on transient errors,
// so fn must re-read whatever it depends on.
func (m *Mongo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "initializing mongo session failed")
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// newestFirst sorts documents by creation time, breaking ties by ObjectID
func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: ObjectID, Value: -1}}
}

func notFound(err error) error {
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}
