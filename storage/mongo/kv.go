// Package mongostore stores records as documents of one MongoDB collection, keyed by _id.
package mongostore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
)

var nowFunc = time.Now // mockable

type recordDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newDoc(key string, value []byte) recordDoc {
	return recordDoc{Key: key, Value: string(value), UpdatedAt: nowFunc().UTC()}
}

type KV struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ store.KV = (*KV)(nil)

// Open connects and pings the primary.
func Open(ctx context.Context, conf core.MongoConfig) (*KV, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongodb")
	}
	return &KV{client: client, coll: client.Database(conf.Database).Collection(conf.Collection)}, nil
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var doc recordDoc
	err := kv.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding record")
	}
	return []byte(doc.Value), nil
}

func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	_, err := kv.coll.ReplaceOne(ctx, bson.M{"_id": key}, newDoc(key, value), options.Replace().SetUpsert(true))
	return errors.Wrap(err, "replacing record")
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	res, err := kv.coll.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return errors.Wrap(err, "deleting record")
	}
	if res.DeletedCount == 0 {
		return store.ErrKeyNotFound
	}
	return nil
}

func (kv *KV) Keys(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := kv.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	var docs []recordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.Key)
	}
	return keys, nil
}

func (kv *KV) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return kv.client.Disconnect(ctx)
}
