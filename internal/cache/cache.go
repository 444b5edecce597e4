// Package cache memoizes analysis results keyed by dataset fingerprint.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL bounds how long a memoized result is reused.
const DefaultTTL = 15 * time.Minute

// Cache stores encoded values by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
	RedisDB       int
}

// New builds the backend named by cfg.Backend ("memory", "redis" or "none").
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(cfg.TTL), nil
	case BackendRedis:
		return NewRedis(ctx, cfg)
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }
