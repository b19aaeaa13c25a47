// Package mongo publishes built diagrams to a MongoDB collection.
//
// Publishing exists so a web frontend can read the latest diagram without
// shipping files around: each build run inserts one document tagged with its
// run ID, and consumers fetch the newest by creation time.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mkazantsev/rosterflow/pkg/errors"
	"github.com/mkazantsev/rosterflow/pkg/sankey"
)

// connectTimeout bounds the initial server handshake.
const connectTimeout = 10 * time.Second

// Document is one published diagram.
type Document struct {
	RunID     string          `bson:"run_id"`
	CreatedAt time.Time       `bson:"created_at"`
	Diagram   *sankey.Diagram `bson:"diagram"`
}

// Store reads and writes diagram documents in one collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials the MongoDB deployment at uri and returns a store bound to
// database/collection. The collection name is validated before dialing.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	if err := errors.ValidateCollectionName(collection); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", uri)
	}

	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Save inserts one diagram document.
func (s *Store) Save(ctx context.Context, runID string, d *sankey.Diagram) error {
	doc := Document{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Diagram:   d,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert diagram %s", runID)
	}
	return nil
}

// Latest returns the most recently published document.
// Returns ErrCodeNotFound when the collection is empty.
func (s *Store) Latest(ctx context.Context) (*Document, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc Document
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no published diagrams")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find latest diagram")
	}
	return &doc, nil
}

// Close disconnects from the deployment.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
