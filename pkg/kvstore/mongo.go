package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MongoCollectionName = "session_slots"

type mongoSlot struct {
	Key   string `bson:"key"`
	Value string `bson:"value"`

	ModificationDateTime time.Time `bson:"modificationdatetime"`
}

// MongoStore keeps one document per slot, upserted by key.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (m *MongoStore) Get(ctx context.Context, key string) (string, error) {
	var slot mongoSlot
	err := m.collection.FindOne(ctx, bson.M{"key": key}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("mongo find %s: %w", key, err)
	}

	return slot.Value, nil
}

func (m *MongoStore) Set(ctx context.Context, key string, value string) error {
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, bson.M{"key": key}, bson.M{
		"$set": mongoSlot{
			Key:                  key,
			Value:                value,
			ModificationDateTime: time.Now(),
		},
	}, opts)
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}

	return nil
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"key": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}

	return nil
}
