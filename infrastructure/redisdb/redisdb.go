// Package redisdb opens go-redis clients.
package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/sessions/sdk/environment"
	"github.com/redis/go-redis/v9"
)

type Client = redis.Client

// Nil is returned by reads of missing keys.
var Nil = redis.Nil

// Options represents the exportable redis configuration
type Options struct {
	URL          string        `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Option adjusts the parsed client options before the client is created.
type Option func(*redis.Options)

// WithPoolSize sets the maximum number of socket connections.
func WithPoolSize(n int) Option {
	return func(o *redis.Options) {
		o.PoolSize = n
	}
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(o *redis.Options) {
		o.DB = db
	}
}

// NewFromEnv creates a client from environment variables.
func NewFromEnv(ctx context.Context, prefix string, opts ...Option) (*redis.Client, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing redis config: %w", err)
	}

	timeouts := func(o *redis.Options) {
		if cfg.PoolSize > 0 {
			o.PoolSize = cfg.PoolSize
		}
		o.DialTimeout = cfg.DialTimeout
		o.ReadTimeout = cfg.ReadTimeout
		o.WriteTimeout = cfg.WriteTimeout
	}
	return NewClient(ctx, cfg.URL, append([]Option{timeouts}, opts...)...)
}

// NewClient parses a redis:// URL, creates the client and pings it.
func NewClient(ctx context.Context, redisURL string, opts ...Option) (*redis.Client, error) {
	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	for _, opt := range opts {
		opt(ropts)
	}

	client := redis.NewClient(ropts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// StatusCheck returns nil if it can successfully talk to redis
func StatusCheck(ctx context.Context, client *redis.Client) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	return client.Ping(ctx).Err()
}
