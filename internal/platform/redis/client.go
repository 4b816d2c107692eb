// Package redis owns the process-wide Redis connection used by the thumbnail
// store. Optional at runtime: without a configured URL the server falls back
// to the in-memory store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"rehome/internal/platform/config"
)

// Client wraps go-redis so callers get health checking without reaching for
// the raw client type.
type Client struct {
	*redis.Client
}

// New connects using the provided configuration. An empty URL means Redis is
// not configured and returns a nil client, which main treats as "use memory".
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
