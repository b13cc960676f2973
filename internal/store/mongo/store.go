// Package mongo implements the listing store on MongoDB. The upsert maps
// directly onto a single UpdateOne with $set/$setOnInsert, which Mongo
// executes atomically per document, so concurrent writers on the same
// (source, sourceId) can never produce duplicates.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fyxed/rentcrawl/internal/store"
)

const connectTimeout = 10 * time.Second

// Store writes listing documents into one collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials MongoDB, verifies the connection and ensures the unique
// index backing the upsert key.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", store.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %v", store.ErrUnavailable, err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "source", Value: 1}, {Key: "sourceId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create listing index: %w", err)
	}

	return &Store{client: client, coll: coll}, nil
}

// Upsert implements store.Upserter.
func (s *Store) Upsert(ctx context.Context, key store.Key, set, setOnInsert map[string]any) (store.Result, error) {
	filter := bson.M{"source": key.Source, "sourceId": key.SourceID}
	update := bson.M{
		"$set":         bson.M(set),
		"$setOnInsert": bson.M(setOnInsert),
	}

	res, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: upsert %s/%s: %v", store.ErrUnavailable, key.Source, key.SourceID, err)
	}
	if res.UpsertedCount > 0 {
		return store.ResultInserted, nil
	}
	return store.ResultUpdated, nil
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: ping: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
