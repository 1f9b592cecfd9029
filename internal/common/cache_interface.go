package common

import "time"

// CacheInterface abstracts the process-local cache from its consumers.
type CacheInterface interface {
	// Set stores a value with the given key and duration.
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value by key; the bool reports whether it was found.
	Get(key string) (interface{}, bool)

	// Delete removes a value by key.
	Delete(key string)

	// GetOrSet returns the cached value, or loads and caches it on a miss.
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close closes any underlying connections.
	Close() error
}
