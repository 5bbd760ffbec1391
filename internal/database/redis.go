package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisDialTimeout = 5 * time.Second
	redisIOTimeout   = 3 * time.Second
)

// ConnectRedis opens the client used for the dashboard cache and notification fan-out
// and fails unless the server answers a PING before ctx expires.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = redisDialTimeout
	}
	if options.ReadTimeout == 0 {
		options.ReadTimeout = redisIOTimeout
	}
	if options.WriteTimeout == 0 {
		options.WriteTimeout = redisIOTimeout
	}

	client := redis.NewClient(options)
	if err := PingRedis(client)(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// PingRedis returns a readiness check for client.
func PingRedis(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client not configured")
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("unable to reach redis: %w", err)
		}
		return nil
	}
}
