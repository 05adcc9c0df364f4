package infra

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"ormawa.id/internal/config"
)

// NewRedisClient connects to redis for the roster cache. Returns nil when no
// address is configured; the service then reads straight from Postgres.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: redis unreachable, roster cache disabled: %v", err)
		return nil
	}
	return rdb
}
