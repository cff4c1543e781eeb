// Package geocache implements named, size-bounded, sliding-TTL caches that are
// safe for concurrent use, plus a Registry owning a fixed set of them.
//
// Components:
//   - Cache[K, V]: at most MaxSize entries, each valid for TTL since its last
//     access (insert or hit). Full caches evict the least recently touched
//     entry before inserting. A background reaper sweeps expired entries every TTL.
//   - Registry: immutable name -> Cache mapping built once from Config.
//   - Typed[K, V]: typed view over a registry cache (see Lookup).
//   - Logger / Hooks: pluggable logging and event callbacks.
//
// Expiry is sliding: a key read more often than once per TTL never expires.
// An expired entry is invisible to Get immediately, but physically removed only
// by the next reaper sweep, so it may occupy memory for up to 2*TTL.
//
// Load pattern:
//
//	c, _ := geocache.Lookup[string, Coordinate](reg, geocache.CacheGeocoding)
//	v, err := c.GetOrLoad(ctx, addr, func(ctx context.Context) (Coordinate, error) {
//		return upstream.Forward(ctx, addr)
//	})
//
// GetOrLoad does not de-duplicate concurrent misses: two callers missing the
// same key both run their loader, and the last Put wins.
package geocache
