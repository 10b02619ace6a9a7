package vaultkeys

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestKeyCache(t *testing.T) {
	pub1, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	pub2, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	fetchCount := 0
	fetch := func(ctx context.Context, version int64) (ed25519.PublicKey, error) {
		fetchCount++
		switch version {
		case 1:
			return pub1, nil
		case 2:
			return pub2, nil
		default:
			return nil, errors.New("version not found")
		}
	}

	cache := newKeyCache(100*time.Millisecond, 50*time.Millisecond, fetch)

	t.Run("Fetch Then Hit", func(t *testing.T) {
		raw, err := cache.getKey(context.Background(), 1)
		if err != nil {
			t.Errorf("getKey failed: %v", err)
		}
		if !bytes.Equal(raw, pub1) {
			t.Error("Expected version 1 key")
		}
		if fetchCount != 1 {
			t.Errorf("Expected 1 fetch, got %d", fetchCount)
		}

		// Second lookup should use cache
		if _, err := cache.getKey(context.Background(), 1); err != nil {
			t.Errorf("Second getKey failed: %v", err)
		}
		if fetchCount != 1 {
			t.Error("Expected cache hit")
		}
	})

	t.Run("Versions Cache Separately", func(t *testing.T) {
		raw, err := cache.getKey(context.Background(), 2)
		if err != nil {
			t.Errorf("getKey failed: %v", err)
		}
		if !bytes.Equal(raw, pub2) {
			t.Error("Expected version 2 key")
		}
		if bytes.Equal(raw, pub1) {
			t.Error("Expected versions to cache separately")
		}
	})

	t.Run("Unknown Version", func(t *testing.T) {
		if _, err := cache.getKey(context.Background(), 9); err == nil {
			t.Error("Expected error for unknown version")
		}
	})

	t.Run("Key Expiration", func(t *testing.T) {
		initialCount := fetchCount
		time.Sleep(150 * time.Millisecond)

		if _, err := cache.getKey(context.Background(), 1); err != nil {
			t.Errorf("getKey after expiry failed: %v", err)
		}
		if fetchCount != initialCount+1 {
			t.Error("Expected new fetch after expiry")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		initialCount := fetchCount
		cache.clear()

		if _, err := cache.getKey(context.Background(), 1); err != nil {
			t.Errorf("getKey after clear failed: %v", err)
		}
		if fetchCount != initialCount+1 {
			t.Error("Expected new fetch after clear")
		}
	})
}

// The fetch counter needs no lock of its own: fetchAndCache calls fetch
// while holding the cache's write lock.
func TestKeyCacheConcurrentHits(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	fetchCount := 0
	fetch := func(ctx context.Context, version int64) (ed25519.PublicKey, error) {
		fetchCount++
		return pub, nil
	}

	cache := newKeyCache(time.Minute, 10*time.Millisecond, fetch)

	// Warm the entry so every concurrent lookup is a hit
	if _, err := cache.getKey(context.Background(), 1); err != nil {
		t.Fatalf("getKey failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				raw, err := cache.getKey(context.Background(), 1)
				if err != nil {
					t.Errorf("getKey failed: %v", err)
					return
				}
				if !bytes.Equal(raw, pub) {
					t.Error("Expected the cached key")
					return
				}
			}
		}()
	}
	wg.Wait()

	if fetchCount != 1 {
		t.Errorf("Expected concurrent lookups to hit the cache, got %d fetches", fetchCount)
	}
}
