package redis_client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/util"
	"github.com/adjust/rmq/v5"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueConnectionTag = "transitnow"

func Connect() error {
	if Client != nil {
		return nil
	}

	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["TRANSITNOW_REDIS_ADDRESS"] != "" {
		address = env["TRANSITNOW_REDIS_ADDRESS"]
	}

	if env["TRANSITNOW_REDIS_PASSWORD"] != "" {
		password = env["TRANSITNOW_REDIS_PASSWORD"]
	}

	if env["TRANSITNOW_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["TRANSITNOW_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return fmt.Errorf("invalid TRANSITNOW_REDIS_DATABASE: %w", err)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(func() error {
		return client.Ping(context.Background()).Err()
	}, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", address).Msgf("Redis not reachable, retrying in %s", wait)
	})
	if err != nil {
		return fmt.Errorf("connecting to redis %s: %w", address, err)
	}

	return Use(client)
}

// Use installs an already connected client, opening the queue connection on top of it.
func Use(client *redis.Client) error {
	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, nil)
	if err != nil {
		return fmt.Errorf("opening queue connection: %w", err)
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", client.Options().Addr).Msg("Redis client setup")

	return nil
}
