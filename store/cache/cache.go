// Package cache provides a small in-memory TTL cache used by the store for
// hot lookups (users, sessions). It is intentionally not shared across
// instances; kotoba is a single-process personal server.
package cache

import (
	"sync"
	"time"
)

// Config holds cache settings.
type Config struct {
	// DefaultTTL is applied to entries stored via Set.
	DefaultTTL time.Duration
	// CleanupInterval controls how often expired entries are swept.
	CleanupInterval time.Duration
	// MaxItems bounds the cache size; Set evicts an arbitrary entry when full.
	MaxItems int
	// OnEviction, if set, is called with the key of every removed entry.
	OnEviction func(key string)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a thread-safe in-memory cache with per-entry expiry.
type Cache struct {
	config Config

	mu    sync.RWMutex
	items map[string]item
	stop  chan struct{}
	once  sync.Once
}

// New creates a cache and starts its background sweeper.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	c := &Cache{
		config: config,
		items:  make(map[string]item),
		stop:   make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		if _, exists := c.items[key]; !exists {
			for k := range c.items {
				delete(c.items, k)
				if c.config.OnEviction != nil {
					c.config.OnEviction(k)
				}
				break
			}
		}
	}
	c.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		delete(c.items, key)
		if c.config.OnEviction != nil {
			c.config.OnEviction(key)
		}
	}
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, k)
					if c.config.OnEviction != nil {
						c.config.OnEviction(k)
					}
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
