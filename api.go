package geocache

import (
	"time"
)

// Cache names used by the geocoding service.
const (
	CacheGeocoding        = "geocoding"
	CacheReverseGeocoding = "reverse-geocoding"
)

// Options configure a single Cache.
// Name, MaxSize and TTL are required; others have sensible defaults.
type Options struct {
	// Required
	Name    string        // registry key and log/metric label
	MaxSize int           // entry count bound; must be > 0
	TTL     time.Duration // idle lifetime since last access; also the reaper period; must be > 0

	Logger Logger           // if nil, NopLogger is used
	Hooks  Hooks            // if nil, NopHooks is used
	Now    func() time.Time // clock; nil => time.Now
	Shards int              // lock stripes; 0 => 16
}

// CacheConfig is the per-name part of a registry Config.
type CacheConfig struct {
	MaxSize int           `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	TTL     time.Duration `mapstructure:"ttl" json:"ttl" yaml:"ttl"`
}

// Config enumerates the caches a Registry owns. Logger, Hooks, Now and
// Shards are shared by every cache.
type Config struct {
	Caches map[string]CacheConfig

	Logger Logger
	Hooks  Hooks
	Now    func() time.Time
	Shards int
}

// Stats is a point-in-time view of one cache's counters.
type Stats struct {
	Name         string        `json:"name" cbor:"name" msgpack:"name"`
	Size         int           `json:"size" cbor:"size" msgpack:"size"`
	MaxSize      int           `json:"max_size" cbor:"max_size" msgpack:"max_size"`
	TTL          time.Duration `json:"ttl" cbor:"ttl" msgpack:"ttl"`
	Hits         uint64        `json:"hits" cbor:"hits" msgpack:"hits"`
	Misses       uint64        `json:"misses" cbor:"misses" msgpack:"misses"`
	Loads        uint64        `json:"loads" cbor:"loads" msgpack:"loads"`
	LoadFailures uint64        `json:"load_failures" cbor:"load_failures" msgpack:"load_failures"`
	Evictions    uint64        `json:"evictions" cbor:"evictions" msgpack:"evictions"`
	Expirations  uint64        `json:"expirations" cbor:"expirations" msgpack:"expirations"`
}
