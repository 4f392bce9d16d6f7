package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

// InitRedis connects the package-level client. When address is empty the
// client stays nil and every helper becomes a no-op, so a cache outage never
// takes the board down.
func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	if redisAddress == "" {
		log.Info().Msg("redis not configured, caching disabled")
		return
	}
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// SetJSON caches a JSON-encoded value under key.
func SetJSON(ctx context.Context, key string, value any, expiration time.Duration) {
	if Rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode cache value")
		return
	}
	if err := Rdb.Set(ctx, key, raw, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to write cache key")
	}
}

// GetJSON loads a cached value into dest, reporting whether it was present.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if Rdb == nil {
		return false
	}
	raw, err := Rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to decode cache value")
		return false
	}
	return true
}

// InvalidatePrefix drops every key under prefix. Used after mutations so board
// reads never serve stale schedules.
func InvalidatePrefix(ctx context.Context, prefix string) {
	if Rdb == nil {
		return
	}
	iter := Rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := Rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Error().Err(err).Str("key", iter.Val()).Msg("failed to invalidate cache key")
		}
	}
	if err := iter.Err(); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("cache invalidation scan failed")
	}
}
