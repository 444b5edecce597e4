package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expiry time.Time
	value  []byte
}

// Memory is a thread-safe TTL cache with a background sweeper.
type Memory struct {
	entries map[string]entry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// NewMemory creates a cache with the given TTL (DefaultTTL when zero).
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Get returns the value if present and not expired.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiry) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a value.
func (c *Memory) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:  value,
		expiry: time.Now().Add(c.ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Memory) cleanup() {
	ticker := time.NewTicker(min(c.ttl, 5*time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Memory) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, key)
		}
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (c *Memory) Close() error {
	c.once.Do(func() { close(c.stopCh) })
	return nil
}
