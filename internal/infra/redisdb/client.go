package redisdb

import (
	"context"
	"fmt"
	"time"

	"flashsale-service/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Connect opens the shared key-value store client. All contended state
// (stock counters, duplicate-purchase sets, id counters, cache and lock
// entries) lives behind this client; application code mutates it only
// through atomic store-native operations.
func Connect(cfg config.RedisConfig) (*redis.Client, func(), error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = rdb.Close()
	}

	return rdb, cleanup, nil
}
