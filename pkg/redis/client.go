package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/aegis-quant/pkg/config"
)

// dialTimeout bounds the startup ping
const dialTimeout = 3 * time.Second

// Client is the optional Redis connection shared by the snapshot cache and
// the cross-process fetch rate limiter. A disabled or nil Client is a no-op.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb *redis.Client
}

// New connects when REDIS_ENABLED=true and returns a disabled client otherwise
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s:%s: %w", cfg.Redis.Host, cfg.Redis.Port, err)
	}
	return &Client{rdb: rdb}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Enabled reports whether commands reach a server
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Redis returns the underlying client (nil when disabled)
func (c *Client) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}
