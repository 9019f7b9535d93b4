package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate
// dest), then stores the result with ttl. fetch must write into dest.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	// Store best-effort; a cache write failure never surfaces to the caller.
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// GetString reads a raw string value, for non-JSON payloads like the sitemap.
func GetString(ctx context.Context, key string) (string, bool) {
	if client == nil {
		return "", false
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return s, true
}

// SetString stores a raw string value with TTL.
func SetString(ctx context.Context, key, value string, ttl time.Duration) {
	if client == nil {
		return
	}
	_ = client.Set(ctx, key, value, ttl).Err()
}
