// Package idempotency rejects repeated submissions of the same client request
// key within a TTL. It is used for budget top-ups, which must never be applied
// twice because of a double click or a retried request.
package idempotency

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency"

type Guard interface {
	// Claim reserves key. It returns false when the key is already held.
	Claim(ctx context.Context, scope, key string) (bool, error)
	// Release frees a key so a failed request can be retried.
	Release(ctx context.Context, scope, key string) error
}

type redisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

type noopGuard struct{}

// NewGuard returns a redis-backed guard, or a guard that accepts everything
// when redis is disabled.
func NewGuard(cfg config.RedisConfig) (Guard, error) {
	if !cfg.Enabled {
		return &noopGuard{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisGuard{client: client, ttl: ttl}, nil
}

// NewRedisGuard wraps an existing client.
func NewRedisGuard(client *redis.Client, ttl time.Duration) Guard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisGuard{client: client, ttl: ttl}
}

func NewNoopGuard() Guard {
	return &noopGuard{}
}

func (g *redisGuard) Claim(ctx context.Context, scope, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, buildKey(scope, key), time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

func (g *redisGuard) Release(ctx context.Context, scope, key string) error {
	if err := g.client.Del(ctx, buildKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (g *noopGuard) Claim(ctx context.Context, scope, key string) (bool, error) {
	return true, nil
}

func (g *noopGuard) Release(ctx context.Context, scope, key string) error {
	return nil
}

func buildKey(scope, key string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(key)))
	return fmt.Sprintf("%s:%s:%s", keyPrefix, scope, hex.EncodeToString(sum[:]))
}
