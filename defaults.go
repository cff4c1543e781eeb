package geocache

import "time"

const (
	defaultShards  = 16
	defaultMaxSize = 5
	defaultTTL     = 120000 * time.Millisecond
)

// DefaultConfig returns the two caches used by the geocoding service:
// forward and reverse lookups, 5 entries each, 2 minute TTL.
func DefaultConfig() Config {
	return Config{
		Caches: map[string]CacheConfig{
			CacheGeocoding:        {MaxSize: defaultMaxSize, TTL: defaultTTL},
			CacheReverseGeocoding: {MaxSize: defaultMaxSize, TTL: defaultTTL},
		},
	}
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
