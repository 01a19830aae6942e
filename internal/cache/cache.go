// Package cache provides the claim-verdict cache used by the fact checker.
// With REDIS_URL set, verdicts survive across runs; otherwise an in-process
// map covers revision rounds within a single run.
package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Memory is a process-local verdict cache.
type Memory struct {
	mu   sync.RWMutex
	data map[string]bool
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]bool)}
}

// Get returns the cached verdict and whether the key was present.
func (m *Memory) Get(_ context.Context, key string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Set stores a verdict.
func (m *Memory) Set(_ context.Context, key string, verified bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = verified
}

// Len returns the number of cached verdicts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Redis is a redis-backed verdict cache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the given redis URL. The connection is verified
// with a short ping so a bad URL fails at startup, not mid-pipeline.
func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Redis{client: client, ttl: ttl}, nil
}

// Get returns the cached verdict and whether the key was present.
// Redis errors degrade to a cache miss.
func (r *Redis) Get(ctx context.Context, key string) (bool, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] redis get %s: %v", key, err)
		}
		return false, false
	}
	return val == "1", true
}

// Set stores a verdict with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, verified bool) {
	val := "0"
	if verified {
		val = "1"
	}
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		log.Printf("[cache] redis set %s: %v", key, err)
	}
}

// Close releases the redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
