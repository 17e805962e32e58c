package idempotency

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

func newRedisClient(cfg config.RedisConfig) (*redis.Client, time.Duration, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, ttlFromConfig(cfg), nil
}

func ttlFromConfig(cfg config.RedisConfig) time.Duration {
	ttl := time.Duration(cfg.IdempotencyTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return ttl
}

func buildRedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.Port
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}
