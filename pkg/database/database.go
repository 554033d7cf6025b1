package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/util"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "transitnow"

func Connect() error {
	if MongoGlobalInstance != nil {
		return nil
	}

	connectionString := defaultMongoConnectionString
	dbName := defaultMongoDatabase

	env := util.GetEnvironmentVariables()

	if env["TRANSITNOW_MONGODB_CONNECTION"] != "" {
		connectionString = env["TRANSITNOW_MONGODB_CONNECTION"]
	}

	if env["TRANSITNOW_MONGODB_DATABASE"] != "" {
		dbName = env["TRANSITNOW_MONGODB_DATABASE"]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}

	retryBackoff := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err = backoff.RetryNotify(func() error {
		return client.Ping(ctx, nil)
	}, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Msgf("MongoDB not reachable, retrying in %s", wait)
	})
	if err != nil {
		return fmt.Errorf("pinging mongodb: %w", err)
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	createIndexes()

	log.Info().Str("database", dbName).Msg("MongoDB client setup")

	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}
