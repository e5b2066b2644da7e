// Package kv provides the key-value store abstraction behind sessions, flow
// state and caching. Values are JSON-serialised, so any backend that can hold
// a string blob can serve as a driver; Redis and an in-process map ship here.
//
// Usage:
//
//	kv.Connect()                                 // boots the configured driver
//	kv.Set("flow:"+sid, flow, 2*time.Hour)
//	var f Flow
//	if kv.Get("flow:"+sid, &f) { ... }
//	kv.Delete("flow:" + sid)
package kv

import (
	"sync"
	"time"
)

// Store is the driver interface: get/set/delete by key, JSON-serialisable
// values. Get reports true on a hit.
type Store interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
	Delete(keys ...string) error
}

var (
	mu      sync.RWMutex
	backend Store = NewMemoryStore()
)

// Use swaps the active driver. The boot sequence calls this after deciding
// between memory and Redis; tests call it to isolate state.
func Use(s Store) {
	mu.Lock()
	defer mu.Unlock()
	backend = s
}

func active() Store {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Active returns the current driver. Components that piggyback on the
// driver's connection (the Redis job queue) inspect it at boot.
func Active() Store { return active() }

// Get retrieves the value under key into dest. Returns true on a hit.
func Get(key string, dest interface{}) bool {
	return active().Get(key, dest)
}

// Set stores value under key for the given TTL (0 = no expiry).
func Set(key string, value interface{}, ttl time.Duration) error {
	return active().Set(key, value, ttl)
}

// Delete removes one or more keys.
func Delete(keys ...string) error {
	return active().Delete(keys...)
}
