// Package cache is a small JSON read-through cache for reference data.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values. Misses and backend errors look the same
// to callers: the value is loaded from the source of truth.
type Cache interface {
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, val any)
	Delete(ctx context.Context, keys ...string)
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string, out any) bool {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, out) == nil
}

func (r *Redis) Set(ctx context.Context, key string, val any) {
	if r.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, r.key(key), data, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	_ = r.client.Del(ctx, full...).Err()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) bool { return false }
func (Nop) Set(context.Context, string, any)      {}
func (Nop) Delete(context.Context, ...string)     {}
