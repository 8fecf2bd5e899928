package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

// InitRedis constructs the shared client. Callers that never call this
// leave Rdb nil and every helper becomes a no-op / miss.
func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// SetJSON marshals value and stores it under key with the given TTL.
// Cache failures are logged and swallowed, the caller always proceeds.
func SetJSON(ctx context.Context, key string, value any, expiration time.Duration) {
	if Rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal cache value")
		return
	}
	if err := Rdb.Set(ctx, key, raw, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to write cache")
	}
}

// GetJSON loads key into dest. Returns false on miss, unavailable client,
// or a decode failure.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if Rdb == nil {
		return false
	}
	raw, err := Rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Str("key", key).Msg("failed to read cache")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache value")
		return false
	}
	return true
}
