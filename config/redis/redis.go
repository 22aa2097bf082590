package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"conversational-recommendation/config"
)

var client *goredis.Client

// Connect opens the Redis connection and verifies it with a PING.
// The client is kept at package level so Disconnect can close it on shutdown.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client = goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Disconnect closes the package-level client if one was connected.
func Disconnect() {
	if client == nil {
		return
	}
	_ = client.Close()
	client = nil
}
