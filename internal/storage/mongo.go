package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matsen/druggraph/internal/mention"
)

// MongoExporter publishes a mention graph to a MongoDB collection.
type MongoExporter struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoExporter connects to MongoDB and verifies the server is reachable.
func NewMongoExporter(ctx context.Context, uri, database, collection string) (*MongoExporter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return &MongoExporter{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Export replaces the collection contents with events, preserving order.
// Returns the number of documents written.
func (m *MongoExporter) Export(ctx context.Context, events []mention.Event) (int, error) {
	if _, err := m.collection.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, fmt.Errorf("clearing collection: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(events))
	for i, e := range events {
		docs[i] = e
	}
	res, err := m.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return 0, fmt.Errorf("inserting mentions: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Fetch returns every document in the collection in insertion order.
func (m *MongoExporter) Fetch(ctx context.Context) ([]mention.Event, error) {
	cursor, err := m.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying mentions: %w", err)
	}
	defer cursor.Close(ctx)

	var events []mention.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decoding mentions: %w", err)
	}
	return events, nil
}

// Close disconnects from the server.
func (m *MongoExporter) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
