// Package redis backs the device-local store with a Redis database when the
// agent runs with LOCAL_DRIVER=redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config selects the Redis database of the local store.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Open connects to Redis and returns the local store driver. Unlike the remote
// store, the local store must be reachable at startup.
func Open(ctx context.Context, cfg Config) (*KeyValue, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return NewKeyValue(client, cfg.KeyPrefix), client.Close, nil
}
