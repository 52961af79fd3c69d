package jwt

import (
	"sync"
	"sync/atomic"
	"time"
)

// Package-level CreateToken and ValidateToken are convenience wrappers for
// simple HMAC use cases. They share Processors through a bounded cache
// keyed by secret, so repeated calls with the same secret reuse key
// material and configuration. For asymmetric algorithms, rate limiting or
// custom TTLs, construct a Processor directly.

type cacheEntry struct {
	processor  *Processor
	lastAccess atomic.Int64
	refCount   atomic.Int32
}

type processorCache struct {
	entries     map[string]*cacheEntry
	mu          sync.RWMutex
	lastCleanup atomic.Int64
}

var cache = &processorCache{
	entries: make(map[string]*cacheEntry, 16),
}

const (
	maxCacheSize         = 100
	cacheCleanupInterval = 300 * time.Second
	cacheMaxIdleTime     = 3600 * time.Second
)

// CreateToken creates a token using a cached default-configuration
// Processor. The secret key must be at least 32 bytes long.
func CreateToken(secretKey string, claims Claims) (string, error) {
	processor, release, err := getProcessor(secretKey)
	if err != nil {
		return "", err
	}
	defer release()

	return processor.CreateToken(claims)
}

// ValidateToken validates a token using a cached default-configuration
// Processor. The secret key must be at least 32 bytes long.
func ValidateToken(secretKey, tokenString string) (Claims, bool, error) {
	processor, release, err := getProcessor(secretKey)
	if err != nil {
		return nil, false, err
	}
	defer release()

	return processor.ValidateToken(tokenString)
}

func getProcessor(secretKey string) (*Processor, func(), error) {
	now := time.Now().Unix()

	cache.mu.RLock()
	entry, exists := cache.entries[secretKey]
	cache.mu.RUnlock()

	if exists {
		entry.lastAccess.Store(now)
		entry.refCount.Add(1)
		return entry.processor, func() { entry.refCount.Add(-1) }, nil
	}

	processor, err := New(secretKey)
	if err != nil {
		return nil, func() {}, err
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	// Another goroutine may have won the race while the lock was free.
	if entry, exists := cache.entries[secretKey]; exists {
		processor.Close()
		entry.lastAccess.Store(now)
		entry.refCount.Add(1)
		return entry.processor, func() { entry.refCount.Add(-1) }, nil
	}

	if len(cache.entries) >= maxCacheSize {
		evictOldestLocked()
	}

	entry = &cacheEntry{processor: processor}
	entry.lastAccess.Store(now)
	entry.refCount.Store(1)
	cache.entries[secretKey] = entry

	cleanupCacheIfNeeded(now)

	return processor, func() { entry.refCount.Add(-1) }, nil
}

func evictOldestLocked() {
	oldestKey := ""
	oldestTime := int64(1<<63 - 1)

	for key, entry := range cache.entries {
		if entry.refCount.Load() > 0 {
			continue
		}
		if lastAccess := entry.lastAccess.Load(); lastAccess < oldestTime {
			oldestKey = key
			oldestTime = lastAccess
		}
	}

	if entry, exists := cache.entries[oldestKey]; exists {
		entry.processor.Close()
		delete(cache.entries, oldestKey)
	}
}

func cleanupCacheIfNeeded(now int64) {
	lastCleanup := cache.lastCleanup.Load()
	if now-lastCleanup < int64(cacheCleanupInterval/time.Second) {
		return
	}
	if !cache.lastCleanup.CompareAndSwap(lastCleanup, now) {
		return
	}

	for key, entry := range cache.entries {
		if entry.refCount.Load() > 0 {
			continue
		}
		if now-entry.lastAccess.Load() > int64(cacheMaxIdleTime/time.Second) {
			entry.processor.Close()
			delete(cache.entries, key)
		}
	}
}

// ClearCache closes and drops all cached processors. Primarily useful for
// tests and graceful shutdown.
func ClearCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	for key, entry := range cache.entries {
		entry.processor.Close()
		delete(cache.entries, key)
	}
}
