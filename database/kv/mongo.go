package kv

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores each key as a single document {_id: key, value: string}.
type Mongo struct {
	coll *mongo.Collection
}

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// NewMongo uses the "kv" collection of the given database.
func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{coll: client.Database(database).Collection("kv")}
}

func (m *Mongo) Get(ctx context.Context, key string) (string, error) {
	var entry mongoEntry
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch key %s: %w", key, err)
	}
	return entry.Value, nil
}

func (m *Mongo) Set(ctx context.Context, key, value string) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.coll.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M{"value": value}}, opts)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Del(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.coll.Database().Client().Ping(ctx, nil)
}
