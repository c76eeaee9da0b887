// Package redis holds the Redis client bootstrap and the per-request
// decision lock, the only things the marketplace uses Redis for.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cargoconnect/marketplace-api/internal/infrastructure/config"
)

const opTimeout = 5 * time.Second

// Connect initialises a Redis client from the marketplace configuration and
// verifies connectivity with a bounded ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
