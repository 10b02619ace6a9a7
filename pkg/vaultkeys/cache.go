package vaultkeys

import (
	"context"
	"crypto/ed25519"
	"sync"
	"sync/atomic"
	"time"
)

// fetchFunc retrieves the raw public key of one transit key version
type fetchFunc func(ctx context.Context, version int64) (ed25519.PublicKey, error)

// keyCache is a thread-safe cache of transit public keys by version.
// Raw keys are cached rather than encoded nkeys so signature checks can
// use them directly.
type keyCache struct {
	sync.RWMutex
	keys   map[int64]*cachedKey
	maxAge time.Duration
	fetch  fetchFunc
}

// cachedKey is a cached public key with metadata. lastUsed holds unix
// nanoseconds and is touched on every hit while only the read lock is
// held, so it must be accessed atomically.
type cachedKey struct {
	raw       ed25519.PublicKey
	fetchedAt time.Time
	lastUsed  atomic.Int64
}

func newKeyCache(maxAge, cleanupInterval time.Duration, fetch fetchFunc) *keyCache {
	c := &keyCache{
		keys:   make(map[int64]*cachedKey),
		maxAge: maxAge,
		fetch:  fetch,
	}

	if cleanupInterval > 0 {
		go c.startCleanup(cleanupInterval)
	}

	return c
}

// getKey retrieves a key from the cache or fetches it if not found/expired
func (c *keyCache) getKey(ctx context.Context, version int64) (ed25519.PublicKey, error) {
	if raw := c.getFromCache(version); raw != nil {
		return raw, nil
	}
	return c.fetchAndCache(ctx, version)
}

func (c *keyCache) getFromCache(version int64) ed25519.PublicKey {
	c.RLock()
	defer c.RUnlock()

	if cached, exists := c.keys[version]; exists {
		if time.Since(cached.fetchedAt) < c.maxAge {
			cached.lastUsed.Store(time.Now().UnixNano())
			return cached.raw
		}
	}
	return nil
}

func (c *keyCache) fetchAndCache(ctx context.Context, version int64) (ed25519.PublicKey, error) {
	c.Lock()
	defer c.Unlock()

	// Double check if another goroutine already fetched
	if cached, exists := c.keys[version]; exists {
		if time.Since(cached.fetchedAt) < c.maxAge {
			cached.lastUsed.Store(time.Now().UnixNano())
			return cached.raw, nil
		}
	}

	raw, err := c.fetch(ctx, version)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &cachedKey{
		raw:       raw,
		fetchedAt: now,
	}
	entry.lastUsed.Store(now.UnixNano())
	c.keys[version] = entry

	return raw, nil
}

// clear removes all keys from the cache
func (c *keyCache) clear() {
	c.Lock()
	defer c.Unlock()
	c.keys = make(map[int64]*cachedKey)
}

func (c *keyCache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *keyCache) cleanup() {
	c.Lock()
	defer c.Unlock()

	now := time.Now()
	for version, cached := range c.keys {
		lastUsed := time.Unix(0, cached.lastUsed.Load())
		if now.Sub(cached.fetchedAt) > c.maxAge ||
			now.Sub(lastUsed) > 2*c.maxAge {
			delete(c.keys, version)
		}
	}
}
