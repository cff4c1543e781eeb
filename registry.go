package geocache

import (
	"errors"
	"fmt"
	"sort"
)

// Registry owns a fixed set of named caches. The set is decided at
// construction and never changes; values and keys are untyped (see Lookup).
type Registry struct {
	caches map[string]*Cache[any, any]
	names  []string
}

// NewRegistry builds one cache per cfg.Caches entry. On any invalid entry
// the caches built so far are closed and a *ConfigError is returned.
func NewRegistry(cfg Config) (*Registry, error) {
	if len(cfg.Caches) == 0 {
		return nil, &ConfigError{Field: "caches", Reason: "at least one cache is required"}
	}

	r := &Registry{caches: make(map[string]*Cache[any, any], len(cfg.Caches))}
	for name, cc := range cfg.Caches {
		c, err := New[any, any](Options{
			Name:    name,
			MaxSize: cc.MaxSize,
			TTL:     cc.TTL,
			Logger:  cfg.Logger,
			Hooks:   cfg.Hooks,
			Now:     cfg.Now,
			Shards:  cfg.Shards,
		})
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		r.caches[name] = c
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Cache returns the cache registered under name.
func (r *Registry) Cache(name string) (*Cache[any, any], bool) {
	c, ok := r.caches[name]
	return c, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Stats returns per-cache counters in name order.
func (r *Registry) Stats() []Stats {
	out := make([]Stats, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.caches[n].Stats())
	}
	return out
}

// Close stops every cache's reaper.
func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.caches {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}
