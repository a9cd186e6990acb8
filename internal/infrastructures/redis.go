package infrastructures

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func NewRedisClient(cfg *AppConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect redis: %v", err)
	}

	return client
}

// RedisKeyPrefix namespaces every key this service writes.
type RedisKeyPrefix string

func NewRedisKeyPrefix(cfg *AppConfig) RedisKeyPrefix {
	return RedisKeyPrefix(cfg.Redis.KeyPrefix)
}
