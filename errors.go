package geocache

import (
	"errors"
	"fmt"
)

// ErrUnknownCache is returned by Lookup for a name the Registry was not built with.
// Callers should treat it as a configuration error, not a per-request condition.
var ErrUnknownCache = errors.New("geocache: unknown cache")

// ConfigError reports an invalid cache configuration.
type ConfigError struct {
	Cache  string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Cache == "" {
		return fmt.Sprintf("geocache: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("geocache: cache %q: invalid %s: %s", e.Cache, e.Field, e.Reason)
}

func validate(opts Options) error {
	switch {
	case opts.Name == "":
		return &ConfigError{Field: "name", Reason: "name is required"}
	case opts.MaxSize <= 0:
		return &ConfigError{Cache: opts.Name, Field: "max_size", Reason: fmt.Sprintf("must be positive, got %d", opts.MaxSize)}
	case opts.TTL <= 0:
		return &ConfigError{Cache: opts.Name, Field: "ttl", Reason: fmt.Sprintf("must be positive, got %s", opts.TTL)}
	case opts.Shards < 0:
		return &ConfigError{Cache: opts.Name, Field: "shards", Reason: fmt.Sprintf("must not be negative, got %d", opts.Shards)}
	}
	return nil
}
