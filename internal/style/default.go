package style

import "sync"

var (
	defaultMu    sync.RWMutex
	defaultCache = NewCache(DefaultGate())
)

// Init replaces the process-wide cache with a fresh one gated by g.
func Init(g Gate, opts ...Option) *Cache {
	c := NewCache(g, opts...)
	defaultMu.Lock()
	defaultCache = c
	defaultMu.Unlock()
	return c
}

// Default returns the process-wide cache.
func Default() *Cache {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultCache
}

// Clear empties the process-wide cache.
func Clear() {
	Default().Clear()
}
