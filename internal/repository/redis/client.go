// Package redis keeps pending deletion requests in redis.
package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/dtroode/medapp-server/internal/config"
)

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}
