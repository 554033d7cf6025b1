package kvstore

import (
	"fmt"

	"github.com/Super-mario11/Transport-Tracker/pkg/database"
	"github.com/Super-mario11/Transport-Tracker/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Open connects the named backend. An empty name selects the memory backend.
func Open(backend string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		log.Info().Msg("Using in-memory session slots")
		return NewMemoryStore(), nil
	case BackendRedis:
		if err := redis_client.Connect(); err != nil {
			return nil, err
		}
		return NewRedisStore(redis_client.Client), nil
	case BackendMongo:
		if err := database.Connect(); err != nil {
			return nil, err
		}
		return NewMongoStore(database.GetCollection(database.SessionSlotsCollection)), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
