package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps slots in Redis through a gocache cache. Slots never expire.
type RedisStore struct {
	cache *cache.Cache[string]
}

func NewRedisStore(client *redis.Client) *RedisStore {
	redisStore := redisstore.NewRedis(client)

	return &RedisStore{
		cache: cache.New[string](redisStore),
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.cache.Get(ctx, key)
	if err != nil {
		if isCacheMiss(err) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string) error {
	if err := r.cache.Set(ctx, key, value); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.cache.Delete(ctx, key); err != nil && !isCacheMiss(err) {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}

	return nil
}

func isCacheMiss(err error) bool {
	var notFound *store.NotFound

	return errors.As(err, &notFound) || errors.Is(err, redis.Nil)
}
