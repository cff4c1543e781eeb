package geocache

import (
	"context"
	"hash/maphash"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

type entry[V any] struct {
	value  V            // immutable; Put of an existing key swaps the entry
	access atomic.Int64 // nanoseconds since Cache.epoch of the last insert or hit
}

// touch moves access forward to now. Concurrent hits may race; the later
// timestamp wins.
func (e *entry[V]) touch(now int64) {
	for {
		old := e.access.Load()
		if now <= old || e.access.CompareAndSwap(old, now) {
			return
		}
	}
}

type shard[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]*entry[V]
}

// Cache is a size-bounded, sliding-TTL cache safe for concurrent use.
//
// Point operations lock a single shard. A Put of a new key into a full cache
// scans every shard for the least recently touched entry (O(n)) and removes it
// before inserting, so Len never exceeds MaxSize.
type Cache[K comparable, V any] struct {
	name    string
	maxSize int
	ttl     time.Duration
	log     Logger
	hooks   Hooks

	now   func() time.Time
	epoch time.Time

	seed   maphash.Seed
	shards []*shard[K, V]

	// reserved slots; always >= live entries and <= maxSize
	size atomic.Int64

	hits, misses, loads, loadFailures, evictions, expirations atomic.Uint64

	// reaper
	ticker    *time.Ticker
	stopCh    chan struct{}
	closeWg   sync.WaitGroup
	closeOnce sync.Once
}

// New builds a cache and starts its reaper. The first sweep runs TTL after
// construction, then every TTL. Call Close to stop it.
func New[K comparable, V any](opts Options) (*Cache[K, V], error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	c := &Cache[K, V]{
		name:    opts.Name,
		maxSize: opts.MaxSize,
		ttl:     opts.TTL,
		now:     opts.Now,
		seed:    maphash.MakeSeed(),
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.epoch = c.now()
	c.log = withCache(coalesce[Logger](opts.Logger, NopLogger{}), c.name)
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	n := coalesce(opts.Shards, defaultShards)
	c.shards = make([]*shard[K, V], n)
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{m: make(map[K]*entry[V])}
	}

	c.ticker = time.NewTicker(c.ttl)
	c.stopCh = make(chan struct{})
	c.closeWg.Add(1)
	go c.reapLoop()

	c.log.Info("initialized cache", Fields{"max_size": c.maxSize, "ttl": c.ttl})
	return c, nil
}

func (c *Cache[K, V]) Name() string       { return c.name }
func (c *Cache[K, V]) MaxSize() int       { return c.maxSize }
func (c *Cache[K, V]) TTL() time.Duration { return c.ttl }

// Close stops the reaper. Entries stay readable. Safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
		c.ticker.Stop()
		c.closeWg.Wait()
	})
	return nil
}

// Get returns the value for key if present and accessed within TTL, and
// refreshes its access time. Expired entries are left for the reaper.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lookup(key, nil)
}

// lookup is Get with an optional accept check. A live value accept rejects
// counts as a miss and keeps its access time.
func (c *Cache[K, V]) lookup(key K, accept func(V) bool) (V, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()

	now := c.stamp()
	if !ok || c.expired(e, now) || (accept != nil && !accept(e.value)) {
		var zero V
		c.misses.Add(1)
		c.hooks.Miss(c.name)
		if debugEnabled(c.log) {
			c.log.Debug("cache miss or expired", Fields{"key": key})
		}
		return zero, false
	}

	e.touch(now)
	c.hits.Add(1)
	c.hooks.Hit(c.name)
	if debugEnabled(c.log) {
		c.log.Debug("cache hit", Fields{"key": key})
	}
	return e.value, true
}

// GetOrLoad returns the cached value for key, or calls loader on a miss and
// stores its result. A loader error is returned unchanged and nothing is
// stored. No lock is held while loader runs; concurrent misses on the same
// key each call their own loader.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	return c.load(ctx, key, loader)
}

// load runs loader for a missed key and stores the result.
func (c *Cache[K, V]) load(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	c.loads.Add(1)
	v, err := loader(ctx)
	if err != nil {
		var zero V
		c.loadFailures.Add(1)
		c.hooks.LoadFailed(c.name, err)
		c.log.Error("error loading value", Fields{"key": key, "err": err})
		return zero, err
	}

	c.Put(key, v)
	return v, nil
}

// Put stores value under key with a fresh access time. If key is new and the
// cache is full, the least recently touched entry is evicted first.
func (c *Cache[K, V]) Put(key K, value V) {
	e := &entry[V]{value: value}
	e.access.Store(c.stamp())

	s := c.shardFor(key)
	if c.replace(s, key, e) {
		c.logStored(key)
		return
	}

	c.reserve()

	s.mu.Lock()
	if _, ok := s.m[key]; ok {
		// lost a race with another Put of the same key; give the slot back
		s.m[key] = e
		s.mu.Unlock()
		c.size.Add(-1)
	} else {
		s.m[key] = e
		s.mu.Unlock()
	}
	c.logStored(key)
}

func (c *Cache[K, V]) logStored(key K) {
	if debugEnabled(c.log) {
		c.log.Debug("stored key", Fields{"key": key, "size": c.Len()})
	}
}

// Evict removes key if present.
func (c *Cache[K, V]) Evict(key K) {
	s := c.shardFor(key)
	s.mu.Lock()
	_, ok := s.m[key]
	if ok {
		delete(s.m, key)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	c.size.Add(-1)
	c.evictions.Add(1)
	c.hooks.Evicted(c.name, EvictExplicit)
	if debugEnabled(c.log) {
		c.log.Debug("evicted key", Fields{"key": key})
	}
}

// Clear removes every entry. Shards are emptied one at a time, so a
// concurrent reader sees each key either before or after the clear.
func (c *Cache[K, V]) Clear() {
	removed := 0
	for _, s := range c.shards {
		s.mu.Lock()
		removed += len(s.m)
		s.m = make(map[K]*entry[V])
		s.mu.Unlock()
	}
	c.size.Add(-int64(removed))
	c.hooks.Cleared(c.name, removed)
	c.log.Info("cleared all entries", Fields{"removed": removed})
}

// Len returns the number of stored entries, including expired entries the
// reaper has not collected yet. Shards are counted one at a time, so under
// concurrent writes the sum is not a snapshot; it is capped at MaxSize, which
// the live count never exceeds.
func (c *Cache[K, V]) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return min(n, c.maxSize)
}

func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Name:         c.name,
		Size:         c.Len(),
		MaxSize:      c.maxSize,
		TTL:          c.ttl,
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Loads:        c.loads.Load(),
		LoadFailures: c.loadFailures.Load(),
		Evictions:    c.evictions.Load(),
		Expirations:  c.expirations.Load(),
	}
}

func (c *Cache[K, V]) shardFor(key K) *shard[K, V] {
	if len(c.shards) == 1 {
		return c.shards[0]
	}
	return c.shards[maphash.Comparable(c.seed, key)%uint64(len(c.shards))]
}

// stamp reads the clock relative to epoch; with time.Now this keeps the
// monotonic reading.
func (c *Cache[K, V]) stamp() int64 {
	return int64(c.now().Sub(c.epoch))
}

func (c *Cache[K, V]) expired(e *entry[V], now int64) bool {
	return now-e.access.Load() > int64(c.ttl)
}

// replace overwrites key in s if it already exists.
func (c *Cache[K, V]) replace(s *shard[K, V], key K, e *entry[V]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		return false
	}
	s.m[key] = e
	return true
}

// reserve claims one slot for a new key, evicting LRU entries until one is free.
func (c *Cache[K, V]) reserve() {
	limit := int64(c.maxSize)
	for {
		n := c.size.Load()
		if n < limit {
			if c.size.CompareAndSwap(n, n+1) {
				return
			}
			continue
		}
		if !c.evictOldest() {
			// slots are held by in-flight inserts, or the victim moved
			runtime.Gosched()
		}
	}
}

// evictOldest removes the entry with the smallest access time. Ties are
// broken arbitrarily. It returns false if nothing was removed.
func (c *Cache[K, V]) evictOldest() bool {
	var (
		victimShard *shard[K, V]
		victimKey   K
		victim      *entry[V]
		oldest      int64
	)
	for _, s := range c.shards {
		s.mu.RLock()
		for k, e := range s.m {
			if at := e.access.Load(); victim == nil || at < oldest {
				victimShard, victimKey, victim, oldest = s, k, e, at
			}
		}
		s.mu.RUnlock()
	}
	if victim == nil {
		return false
	}

	victimShard.mu.Lock()
	cur, ok := victimShard.m[victimKey]
	removed := ok && cur == victim && cur.access.Load() == oldest
	if removed {
		delete(victimShard.m, victimKey)
	}
	victimShard.mu.Unlock()

	if !removed {
		return false
	}
	c.size.Add(-1)
	c.evictions.Add(1)
	c.hooks.Evicted(c.name, EvictCapacity)
	c.log.Info("removed least recently used entry", Fields{"key": victimKey})
	return true
}
