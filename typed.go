package geocache

import (
	"context"
	"fmt"
	"time"
)

// Typed is a typed view over a registry cache. Values written through one
// view are read back as V; a value of another type reads as a miss.
type Typed[K comparable, V any] struct {
	c *Cache[any, any]
}

// Lookup returns a typed view of the cache registered under name, or an error
// wrapping ErrUnknownCache.
func Lookup[K comparable, V any](r *Registry, name string) (*Typed[K, V], error) {
	c, ok := r.Cache(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCache, name)
	}
	return &Typed[K, V]{c: c}, nil
}

func (t *Typed[K, V]) Name() string       { return t.c.Name() }
func (t *Typed[K, V]) TTL() time.Duration { return t.c.TTL() }
func (t *Typed[K, V]) Len() int           { return t.c.Len() }

// Get reads key as V. A stored value of another type is a miss and its
// access time is left unchanged.
func (t *Typed[K, V]) Get(key K) (V, bool) {
	v, ok := t.c.lookup(key, isType[V])
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// GetOrLoad is Cache.GetOrLoad for V. A stored value of another type is
// treated as a miss: loader runs and its result replaces the value.
func (t *Typed[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	if v, ok := t.Get(key); ok {
		return v, nil
	}
	v, err := t.c.load(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	tv, _ := v.(V) // nil when V is an interface and loader returned nil
	return tv, nil
}

func isType[V any](v any) bool {
	_, ok := v.(V)
	return ok
}

func (t *Typed[K, V]) Put(key K, value V) { t.c.Put(key, value) }
func (t *Typed[K, V]) Evict(key K)        { t.c.Evict(key) }
func (t *Typed[K, V]) Clear()             { t.c.Clear() }
