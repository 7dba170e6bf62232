package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

// ErrCacheDisabled is returned by cache reads when Redis is not available.
var ErrCacheDisabled = errors.New("cache disabled")

func InitRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis. Caching and token revocation will be disabled.")
		_ = client.Close()
		return
	}
	Redis = client
	logger.Info().Str("addr", config.AppConfig.RedisAddr).Msg("Connected to Redis")
}

// Caching
func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, payload, expiration).Err()
}

func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return ErrCacheDisabled
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func CacheInvalidate(pattern string) error {
	if Redis == nil {
		return nil
	}
	iter := Redis.Scan(Ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(Ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return Redis.Del(Ctx, keys...).Err()
	}
	return nil
}

// Token revocation

func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return Redis.Set(Ctx, "blacklist:"+jti, "1", ttl).Err()
}

func IsTokenBlacklisted(jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	n, err := Redis.Exists(Ctx, "blacklist:"+jti).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("Token blacklist lookup failed")
		return false
	}
	return n > 0
}
